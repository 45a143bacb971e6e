package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCoachCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateCoachCode()
		require.NoError(t, err)
		require.Regexp(t, pattern, code)
	}
}
