package utils

import (
	"math"
)

func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180. }
func Rad2Deg(rad float64) float64 { return rad * 180. / math.Pi }
