package revealdemo

import "github.com/mouse-blink/reveal"

type Celsius float64

func basics() {
	_ = reveal.Type(42)        // want `Revealed type is "int"`
	_ = reveal.Type("hi")      // want `Revealed type is "string"`
	_ = reveal.Type(3.5)       // want `Revealed type is "float64"`
	_ = reveal.Type(Celsius(1)) // want `Revealed type is "revealdemo\.Celsius"`
}

func composites() {
	_ = reveal.Type([]int{1, 2})                // want `Revealed type is "\[\]int"`
	_ = reveal.Type(map[string]*Celsius{})      // want `Revealed type is "map\[string\]\*revealdemo\.Celsius"`
	_ = reveal.Type(make(chan error))           // want `Revealed type is "chan error"`
	_ = reveal.Type(func(n int) string { return "" }) // want `Revealed type is "func\(n int\) string"`
}

func instantiated() {
	_ = reveal.Type[int](7) // want `Revealed type is "int"`
}

func localTypes() {
	type hidden struct{ n int }

	_ = reveal.Type(hidden{n: 1}) // want `Revealed type is "revealdemo\.hidden@\d+"`
}

func notIntercepted() {
	v := 1
	_ = v
	ignore(reveal.Type(v)) // want `Revealed type is "int"`
}

func ignore(any) {}
