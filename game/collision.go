package game

// CheckCollision reports whether two circles overlap. Touching circles
// do not collide; there is no swept test, fast bullets can tunnel.
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	radSum := r1 + r2
	return dx*dx+dy*dy < radSum*radSum
}

// BlastDamage returns the falloff damage an explosion centred dist away
// deals. Zero outside the radius.
func BlastDamage(damage, dist, radius float64) float64 {
	if radius <= 0 || dist >= radius {
		return 0
	}
	return damage * (1 - dist/radius)
}
