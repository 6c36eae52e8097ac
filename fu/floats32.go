package fu

func Mean(a []float32) float32 {
	var c float64
	for _, x := range a {
		c += float64(x)
	}
	return float32(c / float64(len(a)))
}

func Mse(a, b []float32) float32 {
	var c float64
	for i, x := range a {
		q := float64(x - b[i])
		c += q * q
	}
	return float32(c / float64(len(a)))
}

// Mae is the mean absolute difference of two equally sized vectors
func Mae(a, b []float32) float32 {
	var c float64
	for i, x := range a {
		q := float64(x - b[i])
		if q < 0 {
			q = -q
		}
		c += q
	}
	return float32(c / float64(len(a)))
}

// Clamp01 limits v to the closed range [0,1]
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
