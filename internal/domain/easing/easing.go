// Package easing maps easing names used in beatmap custom data to curves.
package easing

import (
	"math"
	"sort"
)

// Func maps linear progress to eased progress. Input is normally in [0, 1)
// but callers may pass values outside that range.
type Func func(t float64) float64

// Default is the name used when custom data omits an easing.
const Default = "easeLinear"

const (
	backC1    = 1.70158
	backC2    = backC1 * 1.525
	backC3    = backC1 + 1
	elasticC4 = (2 * math.Pi) / 3
	elasticC5 = (2 * math.Pi) / 4.5
	bounceN1  = 7.5625
	bounceD1  = 2.75
)

var byName = map[string]Func{
	"easeLinear": Linear,
	"easeStep":   math.Floor,

	"easeInQuad":    func(t float64) float64 { return t * t },
	"easeOutQuad":   func(t float64) float64 { return 1 - (1-t)*(1-t) },
	"easeInOutQuad": inOutPow(2),

	"easeInCubic":    func(t float64) float64 { return t * t * t },
	"easeOutCubic":   func(t float64) float64 { return 1 - math.Pow(1-t, 3) },
	"easeInOutCubic": inOutPow(3),

	"easeInQuart":    func(t float64) float64 { return math.Pow(t, 4) },
	"easeOutQuart":   func(t float64) float64 { return 1 - math.Pow(1-t, 4) },
	"easeInOutQuart": inOutPow(4),

	"easeInQuint":    func(t float64) float64 { return math.Pow(t, 5) },
	"easeOutQuint":   func(t float64) float64 { return 1 - math.Pow(1-t, 5) },
	"easeInOutQuint": inOutPow(5),

	"easeInSine":    func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) },
	"easeOutSine":   func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	"easeInOutSine": func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 },

	"easeInExpo":    inExpo,
	"easeOutExpo":   outExpo,
	"easeInOutExpo": inOutExpo,

	"easeInCirc":    func(t float64) float64 { return 1 - math.Sqrt(1-t*t) },
	"easeOutCirc":   func(t float64) float64 { return math.Sqrt(1 - (t-1)*(t-1)) },
	"easeInOutCirc": inOutCirc,

	"easeInBack":    func(t float64) float64 { return backC3*t*t*t - backC1*t*t },
	"easeOutBack":   func(t float64) float64 { return 1 + backC3*math.Pow(t-1, 3) + backC1*math.Pow(t-1, 2) },
	"easeInOutBack": inOutBack,

	"easeInElastic":    inElastic,
	"easeOutElastic":   outElastic,
	"easeInOutElastic": inOutElastic,

	"easeInBounce":    func(t float64) float64 { return 1 - outBounce(1-t) },
	"easeOutBounce":   outBounce,
	"easeInOutBounce": inOutBounce,
}

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// Lookup returns the curve registered under name.
func Lookup(name string) (Func, bool) {
	f, ok := byName[name]
	return f, ok
}

// Resolve returns the named curve, or Linear when the name is unknown.
func Resolve(name string) Func {
	if f, ok := byName[name]; ok {
		return f
	}
	return Linear
}

// Names lists every registered easing, sorted.
func Names() []string {
	out := make([]string, 0, len(byName))
	for k := range byName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func inOutPow(p float64) Func {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2, p-1) * math.Pow(t, p)
		}
		return 1 - math.Pow(-2*t+2, p)/2
	}
}

func inExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func outExpo(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func inOutExpo(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	default:
		return (2 - math.Pow(2, -20*t+10)) / 2
	}
}

func inOutCirc(t float64) float64 {
	if t < 0.5 {
		return (1 - math.Sqrt(1-(2*t)*(2*t))) / 2
	}
	return (math.Sqrt(1-(-2*t+2)*(-2*t+2)) + 1) / 2
}

func inOutBack(t float64) float64 {
	if t < 0.5 {
		return ((2 * t) * (2 * t) * ((backC2+1)*2*t - backC2)) / 2
	}
	return ((2*t-2)*(2*t-2)*((backC2+1)*(t*2-2)+backC2) + 2) / 2
}

func inElastic(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*elasticC4)
}

func outElastic(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*elasticC4) + 1
}

func inOutElastic(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return -(math.Pow(2, 20*t-10) * math.Sin((20*t-11.125)*elasticC5)) / 2
	default:
		return (math.Pow(2, -20*t+10)*math.Sin((20*t-11.125)*elasticC5))/2 + 1
	}
}

func outBounce(t float64) float64 {
	switch {
	case t < 1/bounceD1:
		return bounceN1 * t * t
	case t < 2/bounceD1:
		t -= 1.5 / bounceD1
		return bounceN1*t*t + 0.75
	case t < 2.5/bounceD1:
		t -= 2.25 / bounceD1
		return bounceN1*t*t + 0.9375
	default:
		t -= 2.625 / bounceD1
		return bounceN1*t*t + 0.984375
	}
}

func inOutBounce(t float64) float64 {
	if t < 0.5 {
		return (1 - outBounce(1-2*t)) / 2
	}
	return (1 + outBounce(2*t-1)) / 2
}
