package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/library-views-go/catalog" //nolint:revive
)

func Test_GetConsistencyLevel_ShouldDefaultToStrong(t *testing.T) {
	assert.Equal(t, StrongConsistency, GetConsistencyLevel(context.Background()))
}

func Test_GetConsistencyLevel_ShouldReturnTheLevelCarriedByTheContext(t *testing.T) {
	// arrange
	eventual := WithEventualConsistency(context.Background())
	strongAgain := WithStrongConsistency(eventual)

	// act / assert
	assert.Equal(t, EventualConsistency, GetConsistencyLevel(eventual))
	assert.Equal(t, StrongConsistency, GetConsistencyLevel(strongAgain))
	assert.Equal(t, "eventual", GetConsistencyLevel(eventual).String())
	assert.Equal(t, "strong", GetConsistencyLevel(strongAgain).String())
}
