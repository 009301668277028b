package service_test

import (
	"context"
	"testing"
	"time"

	"calendar-api/core/errors"
	"calendar-api/internal/testutil"
	accessEntity "calendar-api/modules/access/entity"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/category/dto"
	"calendar-api/modules/category/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	store := testutil.NewStore(nil)
	svc := service.NewCategoryService(store.CategoryRepo(), accessService.NewAccessService(store.AccessRepo()))
	ctx := context.Background()

	owner := store.AddUser("owner", "owner@example.com")
	reader := store.AddUser("reader", "reader@example.com")
	cal := store.AddCalendar(owner, "Team", false, false)
	store.AddParticipant(cal.ID, reader, accessEntity.RoleReader)

	created, appErr := svc.Create(ctx, owner, cal.ID, &dto.CreateCategoryRequest{Name: " Travel "})
	require.Nil(t, appErr)
	assert.Equal(t, "Travel", created.Name)

	_, appErr = svc.Create(ctx, reader, cal.ID, &dto.CreateCategoryRequest{Name: "Mine"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	list, appErr := svc.List(ctx, reader, cal.ID)
	require.Nil(t, appErr)
	assert.Len(t, list, 2)

	color := "#ff0000"
	updated, appErr := svc.Update(ctx, owner, created.ID, &dto.UpdateCategoryRequest{Color: &color})
	require.Nil(t, appErr)
	assert.Equal(t, "#ff0000", updated.Color)
	assert.Equal(t, "Travel", updated.Name)

	require.Nil(t, svc.Delete(ctx, owner, created.ID))
	list, appErr = svc.List(ctx, owner, cal.ID)
	require.Nil(t, appErr)
	assert.Len(t, list, 1)
}

func TestDelete_CategoryInUse(t *testing.T) {
	store := testutil.NewStore(nil)
	svc := service.NewCategoryService(store.CategoryRepo(), accessService.NewAccessService(store.AccessRepo()))
	ctx := context.Background()

	owner := store.AddUser("owner", "owner@example.com")
	cal := store.AddCalendar(owner, "Team", false, false)
	start := store.Clock.Now()
	store.AddEvent(cal.ID, owner, "Booked", start, start.Add(time.Hour))

	appErr := svc.Delete(ctx, owner, store.DefaultCategoryID(cal.ID))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
}
