package testutil

import (
	"fmt"
	"math/rand"
)

// RandomSwitch returns a function that will output various integers at different weights.
//
// Ex. RandomSwitch(2, 3, 5) will return a function that will output:
//   - `0` 20% of the time
//   - `1` 30% of the time
//   - `2` 50% of the time
func RandomSwitch(weights ...int) func(rndm *rand.Rand) int {
	if len(weights) == 0 {
		panic("a random switch must have at least 1 probability")
	}

	var sum int
	for _, p := range weights {
		if p <= 0 {
			panic(fmt.Sprintf("weights must be positive, got %d", p))
		}
		sum += p
	}

	return func(rndm *rand.Rand) int {
		value := rndm.Intn(sum)

		threshold := 0
		for i := 0; i < len(weights); i++ {
			threshold += weights[i]
			if value < threshold {
				return i
			}
		}

		panic(fmt.Sprintf("random value generated was out of bounds: %d", value))
	}
}

// RandomPick returns a uniformly chosen element of `options`.
func RandomPick[T any](rndm *rand.Rand, options ...T) T {
	if len(options) == 0 {
		panic("cannot pick from zero options")
	}
	return options[rndm.Intn(len(options))]
}

// RandomDigits generates a random string of decimal digits, the first digit
// is never zero.
func RandomDigits(rndm *rand.Rand, length int) string {
	str := make([]rune, length)
	for i := range length {
		if i == 0 {
			str[i] = '1' + rune(rndm.Intn(9))
			continue
		}
		str[i] = '0' + rune(rndm.Intn(10))
	}
	return string(str)
}

// RandomString generates a random lowercase string given the pseudo random source.
func RandomString(rndm *rand.Rand, length int) string {
	str := make([]rune, length)
	for i := range length {
		str[i] = 'a' + rune(rndm.Intn(26))
	}
	return string(str)
}
