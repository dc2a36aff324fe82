package item_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergey-oreshkin/shareit/internal/item"
	"github.com/sergey-oreshkin/shareit/internal/pkg/apperror"
	"github.com/sergey-oreshkin/shareit/internal/pkg/clock"
	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	nextID        int64
	nextCommentID int64
	items         map[int64]*item.Item
	comments      map[int64][]item.Comment
	searchCalls   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:    map[int64]*item.Item{},
		comments: map[int64][]item.Comment{},
	}
}

func (r *fakeRepo) Create(_ context.Context, it *item.Item) error {
	r.nextID++
	it.ID = r.nextID
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*item.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, it *item.Item) error {
	if _, ok := r.items[it.ID]; !ok {
		return item.ErrNotFound
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID int64, page pagination.Page) ([]*item.Item, error) {
	var out []*item.Item
	for _, id := range r.sortedIDs() {
		if r.items[id].OwnerID == ownerID {
			cp := *r.items[id]
			out = append(out, &cp)
		}
	}
	return paginate(out, page), nil
}

func (r *fakeRepo) ListIDsByOwner(_ context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	for _, id := range r.sortedIDs() {
		if r.items[id].OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeRepo) ListByRequest(_ context.Context, requestID int64) ([]*item.Item, error) {
	var out []*item.Item
	for _, id := range r.sortedIDs() {
		it := r.items[id]
		if it.RequestID != nil && *it.RequestID == requestID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Search(_ context.Context, text string, page pagination.Page) ([]*item.Item, error) {
	r.searchCalls++
	needle := strings.ToLower(text)
	var out []*item.Item
	for _, id := range r.sortedIDs() {
		it := r.items[id]
		if !it.Available {
			continue
		}
		if strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) {
			cp := *it
			out = append(out, &cp)
		}
	}
	return paginate(out, page), nil
}

func (r *fakeRepo) CreateComment(_ context.Context, cm *item.Comment) error {
	r.nextCommentID++
	cm.ID = r.nextCommentID
	cm.CreatedAt = testNow
	cm.AuthorName = "author"
	r.comments[cm.ItemID] = append(r.comments[cm.ItemID], *cm)
	return nil
}

func (r *fakeRepo) ListComments(_ context.Context, itemID int64) ([]item.Comment, error) {
	return r.comments[itemID], nil
}

func (r *fakeRepo) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func paginate(items []*item.Item, page pagination.Page) []*item.Item {
	if page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if page.Limit > 0 && len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}

type fakeBookings struct {
	last, next *item.BookingRef
	finished   map[[2]int64]bool
}

func (f *fakeBookings) LastAndNext(_ context.Context, _ int64, _ time.Time) (*item.BookingRef, *item.BookingRef, error) {
	return f.last, f.next, nil
}

func (f *fakeBookings) HasFinished(_ context.Context, bookerID, itemID int64, _ time.Time) (bool, error) {
	return f.finished[[2]int64{bookerID, itemID}], nil
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

const (
	ownerID  = int64(1)
	renterID = int64(2)
)

type fixture struct {
	repo     *fakeRepo
	bookings *fakeBookings
	svc      item.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	bookings := &fakeBookings{finished: map[[2]int64]bool{}}
	users := &fakeUsers{ids: map[int64]bool{ownerID: true, renterID: true}}
	return &fixture{
		repo:     repo,
		bookings: bookings,
		svc:      item.NewService(repo, bookings, users, clock.Fixed{T: testNow}),
	}
}

func (f *fixture) mustCreate(t *testing.T, name string, available bool) *item.Item {
	t.Helper()
	it, err := f.svc.Create(context.Background(), ownerID, item.CreateRequest{
		Name:        name,
		Description: name + " description",
		Available:   available,
	})
	require.NoError(t, err)
	return it
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	it := f.mustCreate(t, "drill", true)
	assert.NotZero(t, it.ID)
	assert.Equal(t, ownerID, it.OwnerID)

	_, err := f.svc.Create(context.Background(), ownerID, item.CreateRequest{Name: "  ", Description: "x"})
	assert.ErrorIs(t, err, item.ErrEmptyName)

	_, err = f.svc.Create(context.Background(), ownerID, item.CreateRequest{Name: "x", Description: ""})
	assert.ErrorIs(t, err, item.ErrEmptyDescription)

	_, err = f.svc.Create(context.Background(), 999, item.CreateRequest{Name: "x", Description: "y"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	it := f.mustCreate(t, "drill", true)

	name := "hammer drill"
	available := false
	got, err := f.svc.Update(context.Background(), ownerID, it.ID, item.UpdateRequest{
		Name:      &name,
		Available: &available,
	})
	require.NoError(t, err)
	assert.Equal(t, "hammer drill", got.Name)
	assert.False(t, got.Available)
	// Fields not present in the patch keep their values.
	assert.Equal(t, "drill description", got.Description)
}

func TestUpdateByNonOwner(t *testing.T) {
	f := newFixture(t)
	it := f.mustCreate(t, "drill", true)

	name := "stolen"
	_, err := f.svc.Update(context.Background(), renterID, it.ID, item.UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, item.ErrNotOwner)
	assert.Equal(t, apperror.KindNotAllowed, apperror.KindOf(err))

	stored, err := f.repo.GetByID(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, "drill", stored.Name)
}

func TestGetByIDBookingsForOwnerOnly(t *testing.T) {
	f := newFixture(t)
	it := f.mustCreate(t, "drill", true)
	f.bookings.last = &item.BookingRef{ID: 7, BookerID: renterID}
	f.bookings.next = &item.BookingRef{ID: 8, BookerID: renterID}

	got, err := f.svc.GetByID(context.Background(), ownerID, it.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastBooking)
	require.NotNil(t, got.NextBooking)
	assert.Equal(t, int64(7), got.LastBooking.ID)

	got, err = f.svc.GetByID(context.Background(), renterID, it.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastBooking)
	assert.Nil(t, got.NextBooking)
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	first := f.mustCreate(t, "drill", true)
	second := f.mustCreate(t, "saw", true)
	f.bookings.next = &item.BookingRef{ID: 9}

	got, err := f.svc.ListByOwner(context.Background(), ownerID, pagination.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.NotNil(t, got[0].NextBooking)

	_, err = f.svc.ListByOwner(context.Background(), 999, pagination.Page{Limit: 10})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "Cordless Drill", true)
	f.mustCreate(t, "drill press", false)
	f.mustCreate(t, "saw", true)

	got, err := f.svc.Search(context.Background(), "dRiLl", pagination.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1, "unavailable items are never returned")
	assert.Equal(t, "Cordless Drill", got[0].Name)
}

func TestSearchBlankText(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "drill", true)

	got, err := f.svc.Search(context.Background(), "   ", pagination.Page{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, f.repo.searchCalls, "a blank query never reaches the store")
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	it := f.mustCreate(t, "drill", true)
	f.bookings.finished[[2]int64{renterID, it.ID}] = true

	cm, err := f.svc.AddComment(context.Background(), renterID, it.ID, "works great")
	require.NoError(t, err)
	assert.NotZero(t, cm.ID)
	assert.Equal(t, renterID, cm.AuthorID)
	assert.Equal(t, "works great", cm.Text)

	got, err := f.svc.GetByID(context.Background(), renterID, it.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
}

func TestAddCommentWithoutFinishedBooking(t *testing.T) {
	f := newFixture(t)
	it := f.mustCreate(t, "drill", true)

	_, err := f.svc.AddComment(context.Background(), renterID, it.ID, "never used it")
	assert.ErrorIs(t, err, item.ErrCommentNotAllowed)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture(t)
	it := f.mustCreate(t, "drill", true)
	f.bookings.finished[[2]int64{renterID, it.ID}] = true

	_, err := f.svc.AddComment(context.Background(), renterID, it.ID, "  ")
	assert.ErrorIs(t, err, item.ErrEmptyComment)

	_, err = f.svc.AddComment(context.Background(), renterID, 999, "text")
	assert.ErrorIs(t, err, item.ErrNotFound)

	_, err = f.svc.AddComment(context.Background(), 999, it.ID, "text")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
