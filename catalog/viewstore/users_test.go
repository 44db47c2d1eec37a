package viewstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
	. "github.com/AntonStoeckl/library-views-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-views-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_CreateUser_ShouldRegisterUnderAFreshID(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	email := GivenUniqueEmail(t)
	before := time.Now().Add(-time.Second)

	// act
	id, err := vs.CreateUser(ctx, "  "+email+" ", "Ada", "Lovelace")

	// assert
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	user, found, err := vs.GetUserByID(ctx, id)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Zero(t, user.TotalBorrows)
	assert.Zero(t, user.ActiveBorrows)
	assert.True(t, user.RegisteredAt.After(before))
	assert.Equal(t, time.UTC, user.RegisteredAt.Location())
}

func Test_CreateUser_ShouldFail_WhenTheEmailIsRegistered_AndWriteNothing(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	email := GivenUniqueEmail(t)
	_, err := vs.CreateUser(ctx, email, "Ada", "Lovelace")
	assert.NoError(t, err, "error in arranging test data")
	countBefore := CountRows(t, wrapper, "users_by_id")

	// act
	id, err := vs.CreateUser(ctx, email, "Grace", "Hopper")

	// assert
	assert.ErrorIs(t, err, catalog.ErrEmailAlreadyRegistered)
	assert.Equal(t, uuid.Nil, id)
	assert.Equal(t, countBefore, CountRows(t, wrapper, "users_by_id"))
}

func Test_CreateUser_ShouldFail_WithInvalidInput(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	vs := wrapper.GetViewStore()

	// act
	_, err := vs.CreateUser(context.Background(), "not-an-email", "Ada", "Lovelace")

	// assert
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func Test_GetUserByID_ShouldReportNotFound_ForUnknownID(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	vs := wrapper.GetViewStore()

	// act
	_, found, err := vs.GetUserByID(context.Background(), uuid.New())

	// assert
	assert.NoError(t, err)
	assert.False(t, found)
}

func Test_GetUserByEmail_ShouldResolveThroughTheEmailView(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	email := GivenUniqueEmail(t)
	id, err := vs.CreateUser(ctx, email, "Ada", "Lovelace")
	assert.NoError(t, err, "error in arranging test data")

	// act
	user, found, err := vs.GetUserByEmail(ctx, email)
	_, unknownFound, unknownErr := vs.GetUserByEmail(ctx, GivenUniqueEmail(t))

	// assert
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, unknownErr)
	assert.False(t, unknownFound)
}

func Test_AllUsers_And_CountUsers(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	countBefore, err := vs.CountUsers(ctx)
	assert.NoError(t, err, "error in arranging test data")
	ada := GivenUserWasRegistered(t, ctx, vs, "Ada", "Lovelace")
	grace := GivenUserWasRegistered(t, ctx, vs, "Grace", "Hopper")

	// act
	all, err := query.Collect(vs.AllUsers(ctx))
	count, countErr := vs.CountUsers(ctx)

	// assert
	assert.NoError(t, err)
	assert.NoError(t, countErr)
	assert.Equal(t, countBefore+2, count)
	assert.Len(t, all, count)

	ids := make([]uuid.UUID, 0, len(all))
	for _, u := range all {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, ada)
	assert.Contains(t, ids, grace)
}

func Test_CreateUser_ShouldStoreEmailAndNamesWithoutSurroundingWhitespace(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	email := GivenUniqueEmail(t)

	// act
	id, err := vs.CreateUser(ctx, " "+email+" ", " Ada", "Lovelace ")

	// assert
	assert.NoError(t, err)

	user, found, err := vs.GetUserByEmail(ctx, email)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
}

func Test_CreateUser_ShouldFail_WhenANameIsOnlyWhitespace(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// act
	_, err := vs.CreateUser(ctx, GivenUniqueEmail(t), "   ", "Lovelace")

	// assert
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)
}
