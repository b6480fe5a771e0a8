package coord

// Municipal plane coordinates appear in older Finnish borehole files.
// The affine parameters below are the published city-survey fits onto
// the national zone systems.

// EspooToGK24 lifts Espoo city coordinates onto ETRS-GK24.
func EspooToGK24(x, y float64) (float64, float64) {
	const (
		a = 6599858.007479810200000
		b = 24499824.978235636000000
		c = 0.999998786628487
		d = 0.000020762261526
		e = -0.000014784506306
		f = 0.999996546603269
	)
	return a + c*x + d*y, b + e*x + f*y
}

// HelsinkiToGK25 lifts Helsinki city coordinates onto ETRS-GK25.
func HelsinkiToGK25(x, y float64) (float64, float64) {
	const (
		a = 6654650.14636
		b = 25447166.49457
		c = 0.99998725362
		d = -0.00120230340
		e = 0.00120230340
		f = 0.99998725362
	)
	return a + c*x + d*y, b + e*x + f*y
}

// PorvooToKKJ3 lifts Porvoo city coordinates onto KKJ zone 3. KKJ is a
// legacy datum outside the ETRS registry, so the result cannot be fed
// back into Transform; it is provided for callers migrating old
// archives.
func PorvooToKKJ3(x, y float64) (float64, float64) {
	p := x - 6699461.017
	i := y - 427129.490
	return 6699460.034 + 1.0000817225*p - 0.0000927982*i,
		3427132.007 + 1.0000817225*i + 0.0000927982*p
}
