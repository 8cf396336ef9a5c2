package systems

import (
	"math"

	"warrior-server/internal/domain"
)

// StepPhysics двигает бойца: гравитация, земля, трение, границы арены.
// Трение задается на кадр 60 FPS и пересчитывается под реальный dt.
func StepPhysics(c *domain.Combatant, dt float64) {
	if dt <= 0 {
		return
	}
	if !c.OnGround {
		c.Vel.Y += domain.Gravity * dt
	}

	c.Pos.X += c.Vel.X * dt
	c.Pos.Y += c.Vel.Y * dt

	if c.Pos.Y >= domain.GroundY {
		c.Pos.Y = domain.GroundY
		c.Vel.Y = 0
		c.OnGround = true
	} else {
		c.OnGround = false
	}

	if c.OnGround {
		c.Vel.X *= math.Pow(c.Friction, dt*60)
		if math.Abs(c.Vel.X) < 1 {
			c.Vel.X = 0
		}
	}

	if c.Pos.X < domain.ArenaMinX {
		c.Pos.X = domain.ArenaMinX
		c.Vel.X = 0
	}
	if c.Pos.X > domain.ArenaMaxX {
		c.Pos.X = domain.ArenaMaxX
		c.Vel.X = 0
	}
}

// StepProjectile двигает снаряд и гасит его по возрасту и за краем арены.
func StepProjectile(p *domain.Projectile, dt float64) {
	if !p.Alive {
		return
	}
	p.Age += dt
	if p.Gravity {
		p.Vel.Y += domain.Gravity * dt
	}
	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt

	if p.Age >= p.MaxAge || p.Pos.X < 0 || p.Pos.X > domain.ArenaMaxX+domain.ArenaMinX || p.Pos.Y > domain.GroundY {
		p.Alive = false
	}
}

// Overlaps - пересечение прямоугольников снаряда и бойца
func Overlaps(p *domain.Projectile, c *domain.Combatant) bool {
	cx, cy, cw, ch := c.Box()
	px, py := p.Pos.X-p.Width/2, p.Pos.Y-p.Height/2
	return px < cx+cw && px+p.Width > cx && py < cy+ch && py+p.Height > cy
}
