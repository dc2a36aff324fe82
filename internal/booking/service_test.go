package booking_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergey-oreshkin/shareit/internal/booking"
	"github.com/sergey-oreshkin/shareit/internal/pkg/apperror"
	"github.com/sergey-oreshkin/shareit/internal/pkg/clock"
	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*booking.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[int64]*booking.Booking{}}
}

func (r *fakeRepo) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = testNow
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) FindByBooker(_ context.Context, bookerID int64, page pagination.Page) ([]*booking.Booking, error) {
	return r.find(page, func(b *booking.Booking) bool { return b.BookerID == bookerID })
}

func (r *fakeRepo) FindByItems(_ context.Context, itemIDs []int64, page pagination.Page) ([]*booking.Booking, error) {
	ids := map[int64]bool{}
	for _, id := range itemIDs {
		ids[id] = true
	}
	return r.find(page, func(b *booking.Booking) bool { return ids[b.ItemID] })
}

func (r *fakeRepo) FindByItem(_ context.Context, itemID int64) ([]*booking.Booking, error) {
	return r.find(pagination.Page{Limit: len(r.bookings) + 1}, func(b *booking.Booking) bool { return b.ItemID == itemID })
}

func (r *fakeRepo) HasFinished(_ context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID && now.After(b.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, from, to booking.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (r *fakeRepo) find(page pagination.Page, match func(*booking.Booking) bool) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if page.Offset >= len(out) {
		return nil, nil
	}
	out = out[page.Offset:]
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type fakeItems struct {
	items map[int64]*booking.ItemInfo
}

func (f *fakeItems) Get(_ context.Context, id int64) (*booking.ItemInfo, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, booking.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeItems) ListIDsByOwner(_ context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	for id, item := range f.items {
		if item.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeUsers struct {
	ids map[int64]bool
}

func (f *fakeUsers) Exists(_ context.Context, id int64) error {
	if !f.ids[id] {
		return apperror.New(apperror.KindNotFound, "user not found")
	}
	return nil
}

type fixture struct {
	repo  *fakeRepo
	items *fakeItems
	users *fakeUsers
	svc   booking.Service
}

const (
	ownerID    = int64(1)
	bookerID   = int64(2)
	strangerID = int64(3)
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	items := &fakeItems{items: map[int64]*booking.ItemInfo{
		10: {ID: 10, Name: "drill", OwnerID: ownerID, Available: true},
		11: {ID: 11, Name: "broken saw", OwnerID: ownerID, Available: false},
	}}
	users := &fakeUsers{ids: map[int64]bool{ownerID: true, bookerID: true, strangerID: true}}
	return &fixture{
		repo:  repo,
		items: items,
		users: users,
		svc:   booking.NewService(repo, items, users, clock.Fixed{T: testNow}),
	}
}

func (f *fixture) mustCreate(t *testing.T, itemID int64, start, end time.Time) *booking.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), bookerID, booking.CreateRequest{
		ItemID:    itemID,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	assert.NotZero(t, b.ID)
	assert.Equal(t, booking.StatusWaiting, b.Status)
	assert.Equal(t, "drill", b.ItemName)
	assert.Equal(t, ownerID, b.ItemOwnerID)
	assert.Equal(t, bookerID, b.BookerID)
	assert.Equal(t, 1, f.repo.count())
}

func TestCreateOwnItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), ownerID, booking.CreateRequest{
		ItemID:    10,
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, booking.ErrOwnItem)
	assert.Equal(t, apperror.KindNotAllowed, apperror.KindOf(err))
	assert.Zero(t, f.repo.count(), "a rejected create must not insert")
}

func TestCreateUnavailableItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), bookerID, booking.CreateRequest{
		ItemID:    11,
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, booking.ErrItemUnavailable)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	assert.Zero(t, f.repo.count())
}

func TestCreateItemNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), bookerID, booking.CreateRequest{
		ItemID:    999,
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(2 * time.Hour),
	})

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Zero(t, f.repo.count())
}

func TestGetByIDVisibility(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	got, err := f.svc.GetByID(context.Background(), bookerID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.svc.GetByID(context.Background(), ownerID, b.ID)
	assert.NoError(t, err, "the item owner can see the booking")

	_, err = f.svc.GetByID(context.Background(), strangerID, b.ID)
	assert.ErrorIs(t, err, booking.ErrViewForbidden)

	_, err = f.svc.GetByID(context.Background(), bookerID, 999)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	got, err := f.svc.Approve(context.Background(), ownerID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, got.Status)

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, stored.Status)
}

func TestApproveTwice(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	_, err := f.svc.Approve(context.Background(), ownerID, b.ID, true)
	require.NoError(t, err)

	// A second decision of either kind fails, and the stored status keeps
	// the first verdict.
	_, err = f.svc.Approve(context.Background(), ownerID, b.ID, false)
	assert.ErrorIs(t, err, booking.ErrAlreadyDecided)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, stored.Status)
}

func TestApproveByNonOwner(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	for _, actor := range []int64{bookerID, strangerID} {
		_, err := f.svc.Approve(context.Background(), actor, b.ID, true)
		assert.ErrorIs(t, err, booking.ErrNotItemOwner)
	}

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusWaiting, stored.Status)
}

func TestRejectBooking(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	got, err := f.svc.Approve(context.Background(), ownerID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusRejected, got.Status)
}

// Two concurrent decisions race on the same WAITING booking; the store-level
// compare-and-swap guarantees exactly one winner.
func TestApproveConcurrent(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(approve bool) {
			defer wg.Done()
			_, err := f.svc.Approve(context.Background(), ownerID, b.ID, approve)
			errs <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, booking.ErrAlreadyDecided)
		lost++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
}

func TestListByBookerEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListByBooker(context.Background(), bookerID, booking.StateAll, pagination.Page{Limit: 10})

	assert.ErrorIs(t, err, booking.ErrNothingToReturn)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListByBookerStates(t *testing.T) {
	f := newFixture(t)
	day := 24 * time.Hour

	past := f.mustCreate(t, 10, testNow.Add(-2*day), testNow.Add(-1*day))
	future := f.mustCreate(t, 10, testNow.Add(1*day), testNow.Add(2*day))
	_, err := f.svc.Approve(context.Background(), ownerID, past.ID, true)
	require.NoError(t, err)

	page := pagination.Page{Limit: 10}

	got, err := f.svc.ListByBooker(context.Background(), bookerID, booking.StatePast, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, past.ID, got[0].ID)

	got, err = f.svc.ListByBooker(context.Background(), bookerID, booking.StateFuture, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, future.ID, got[0].ID)

	got, err = f.svc.ListByBooker(context.Background(), bookerID, booking.StateWaiting, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, future.ID, got[0].ID)

	// Bookings exist but none match: an empty list, not an error.
	got, err = f.svc.ListByBooker(context.Background(), bookerID, booking.StateRejected, page)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListByBookerOrderAndPaging(t *testing.T) {
	f := newFixture(t)

	var ids []int64
	for i := 1; i <= 5; i++ {
		b := f.mustCreate(t, 10, testNow.Add(time.Duration(i)*time.Hour), testNow.Add(time.Duration(i+1)*time.Hour))
		ids = append(ids, b.ID)
	}

	got, err := f.svc.ListByBooker(context.Background(), bookerID, booking.StateAll, pagination.Page{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest start first, so offset 1 skips the latest booking.
	assert.Equal(t, ids[3], got[0].ID)
	assert.Equal(t, ids[2], got[1].ID)
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	got, err := f.svc.ListByOwner(context.Background(), ownerID, booking.StateAll, pagination.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestListByOwnerUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListByOwner(context.Background(), 999, booking.StateAll, pagination.Page{Limit: 10})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListByOwnerWithoutItems(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	// strangerID owns nothing, so there is nothing to return.
	_, err := f.svc.ListByOwner(context.Background(), strangerID, booking.StateAll, pagination.Page{Limit: 10})
	assert.ErrorIs(t, err, booking.ErrNothingToReturn)
}
