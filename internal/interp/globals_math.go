package interp

import "math"

// mathGlobal builds the `Math` object with the handful of static
// methods/constants scripts most commonly reach for; a full transcendental
// library is out of scope.
func mathGlobal() *Object {
	obj := NewObject(Undefined{})
	obj.SetOwn("PI", Number(math.Pi))
	obj.SetOwn("E", Number(math.E))

	unary := func(fn func(float64) float64) *HostValue {
		return nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return Number(nan()), nil
			}
			return Number(fn(ToNumber(args[0]))), nil
		})
	}
	obj.SetOwn("floor", unary(math.Floor))
	obj.SetOwn("ceil", unary(math.Ceil))
	obj.SetOwn("round", unary(math.Round))
	obj.SetOwn("abs", unary(math.Abs))
	obj.SetOwn("sqrt", unary(math.Sqrt))

	obj.SetOwn("pow", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		if len(args) < 2 {
			return Number(nan()), nil
		}
		return Number(math.Pow(ToNumber(args[0]), ToNumber(args[1]))), nil
	}))
	obj.SetOwn("max", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Number(math.Inf(-1)), nil
		}
		m := ToNumber(args[0])
		for _, a := range args[1:] {
			m = math.Max(m, ToNumber(a))
		}
		return Number(m), nil
	}))
	obj.SetOwn("min", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Number(math.Inf(1)), nil
		}
		m := ToNumber(args[0])
		for _, a := range args[1:] {
			m = math.Min(m, ToNumber(a))
		}
		return Number(m), nil
	}))
	obj.SetOwn("random", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		return Number(pseudoRandom()), nil
	}))
	return obj
}

// pseudoRandom avoids math/rand's global lock contention concerns for the
// embedded, single-call-at-a-time interpreter; a deterministic
// xorshift sequence is adequate since script-level Math.random()
// never needs cryptographic quality; no crypto primitives are provided here.
var randState uint64 = 0x2545F4914F6CDD1D

func pseudoRandom() float64 {
	randState ^= randState << 13
	randState ^= randState >> 7
	randState ^= randState << 17
	return float64(randState%1_000_000) / 1_000_000
}
