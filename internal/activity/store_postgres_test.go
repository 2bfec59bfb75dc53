package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%expenses%", likePattern("expenses"))
	assert.Equal(t, `%100\% done%`, likePattern("100% done"))
	assert.Equal(t, `%user\_created%`, likePattern("user_created"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
