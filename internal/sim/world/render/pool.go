package render

// Pool recycles disabled entities so chunk churn does not allocate new
// host-side primitives. Released entities are kept alive but disabled;
// Acquire hands back the most recently released one first.
type Pool struct {
	scene   *Scene
	free    []*Entity
	created int
}

func NewPool(scene *Scene) *Pool {
	return &Pool{scene: scene}
}

// Acquire returns an enabled entity. Callers must Configure it before use.
func (p *Pool) Acquire() *Entity {
	if e := p.pop(); e != nil {
		return e
	}
	p.created++
	return p.scene.Create(Spec{Model: ModelCube})
}

// AcquireWith returns an enabled entity already configured with spec. A fresh
// allocation costs one CREATE; a reused entity costs ENABLE plus UPDATE.
func (p *Pool) AcquireWith(spec Spec) *Entity {
	if e := p.pop(); e != nil {
		e.Configure(spec)
		return e
	}
	p.created++
	return p.scene.Create(spec)
}

// pop re-enables the most recently released entity, or returns nil.
func (p *Pool) pop() *Entity {
	n := len(p.free)
	if n == 0 {
		return nil
	}
	e := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	e.pooled = false
	p.scene.Enable(e)
	return e
}

// Release disables e and makes it available again. Releasing a handle twice,
// a nil handle, or a destroyed one has no effect.
func (p *Pool) Release(e *Entity) {
	if e == nil || e.pooled || !e.alive {
		return
	}
	p.scene.Disable(e)
	e.pooled = true
	p.free = append(p.free, e)
}

// Available is the number of entities waiting in the pool.
func (p *Pool) Available() int { return len(p.free) }

// Created is the number of entities the pool ever had to allocate.
func (p *Pool) Created() int { return p.created }
