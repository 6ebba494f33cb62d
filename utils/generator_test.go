package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"CS229 Machine Learning":   "cs229-machine-learning",
		"Physics 2 E&M":            "physics-2-e&m",
		"  Leading and trailing  ": "-leading-and-trailing-",
		"Tabs\tand\nnewlines":      "tabs-and-newlines",
		"Multiple   spaces":        "multiple-spaces",
		"already-slugged":          "already-slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
