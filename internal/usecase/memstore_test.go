package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for Postgres. Every repository call is
// atomic under mu; a transaction records undo steps and replays them on error.
type memStore struct {
	mu            sync.Mutex
	rides         map[uuid.UUID]*entity.Ride
	coords        map[uuid.UUID]*entity.RideCoordinates
	bookings      map[uuid.UUID]*entity.Booking
	bookingOrder  []uuid.UUID
	profiles      map[uuid.UUID]*entity.Profile
	outbox        []*entity.OutboxEvent
	notifications []*entity.Notification

	failBookingCreate error
}

func newMemStore() *memStore {
	return &memStore{
		rides:    map[uuid.UUID]*entity.Ride{},
		coords:   map[uuid.UUID]*entity.RideCoordinates{},
		bookings: map[uuid.UUID]*entity.Booking{},
		profiles: map[uuid.UUID]*entity.Profile{},
	}
}

type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (s *memStore) repository(j *journal) *repository.Repository {
	base := &memRepo{s: s, j: j}
	return &repository.Repository{
		Ride:         memRides{base},
		Inventory:    memInventory{base},
		Coordinates:  memCoords{base},
		Booking:      memBookings{base},
		Profile:      memProfiles{base},
		Outbox:       memOutbox{base},
		Notification: memNotifications{base},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	j := &journal{}
	if err := fn(s.repository(j)); err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// test helpers

func (s *memStore) addRide(driver uuid.UUID, seats int, mutate ...func(*entity.Ride)) *entity.Ride {
	now := time.Now()
	ride := &entity.Ride{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		DriverID:       driver,
		FromCity:       "Moscow",
		ToCity:         "Tver",
		DepartureAt:    now.Add(24 * time.Hour).UTC().Truncate(time.Minute),
		Price:          500,
		SeatsTotal:     seats,
		SeatsAvailable: seats,
		Status:         entity.RideStatusActive,
	}
	for _, m := range mutate {
		m(ride)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rides[ride.ID] = ride
	cp := *ride
	return &cp
}

func (s *memStore) addProfile(p entity.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = &p
}

func (s *memStore) ride(id uuid.UUID) *entity.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rides[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

func (s *memStore) booking(id uuid.UUID) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

func (s *memStore) events() []*entity.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.OutboxEvent(nil), s.outbox...)
}

// heldSeats sums the seats of active bookings on a ride.
func (s *memStore) heldSeats(rideID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := 0
	for _, b := range s.bookings {
		if b.RideID == rideID && b.Status.Active() {
			held += b.SeatsBooked
		}
	}
	return held
}

type memRepo struct {
	s *memStore
	j *journal
}

func (m *memRepo) lock() func() {
	m.s.mu.Lock()
	return m.s.mu.Unlock
}

func (m *memRepo) summary(userID uuid.UUID) entity.DriverSummary {
	sum := entity.DriverSummary{ID: userID, Rating: 5.0}
	if p, ok := m.s.profiles[userID]; ok {
		sum.FullName = p.FullName
		sum.AvatarURL = p.AvatarURL
		sum.Rating = p.Rating
		sum.TripsCount = p.TripsCount
		sum.IsVerified = p.IsVerified
	}
	return sum
}

func (m *memRepo) withDriver(r *entity.Ride) *entity.RideWithDriver {
	rw := &entity.RideWithDriver{Ride: *r, Driver: m.summary(r.DriverID)}
	if c, ok := m.s.coords[r.ID]; ok {
		cp := *c
		rw.Coordinates = &cp
	}
	return rw
}

type memRides struct{ *memRepo }

func (m memRides) Create(ctx context.Context, ride *entity.Ride) error {
	defer m.lock()()
	cp := *ride
	m.s.rides[ride.ID] = &cp
	m.j.record(func() { delete(m.s.rides, ride.ID) })
	return nil
}

func (m memRides) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	defer m.lock()()
	r, ok := m.s.rides[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m memRides) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	return m.FindByID(ctx, id)
}

func (m memRides) FindWithDriver(ctx context.Context, id uuid.UUID) (*entity.RideWithDriver, error) {
	defer m.lock()()
	r, ok := m.s.rides[id]
	if !ok {
		return nil, nil
	}
	return m.withDriver(r), nil
}

func (m memRides) sortedActive() []*entity.Ride {
	var rides []*entity.Ride
	for _, r := range m.s.rides {
		if r.Status == entity.RideStatusActive {
			rides = append(rides, r)
		}
	}
	sort.SliceStable(rides, func(i, j int) bool {
		if rides[i].DepartureAt.Equal(rides[j].DepartureAt) {
			return rides[i].CreatedAt.Before(rides[j].CreatedAt)
		}
		return rides[i].DepartureAt.Before(rides[j].DepartureAt)
	})
	return rides
}

func (m memRides) Search(ctx context.Context, filter entity.RideSearchFilter) ([]*entity.RideWithDriver, int64, error) {
	defer m.lock()()
	var matched []*entity.RideWithDriver
	for _, r := range m.sortedActive() {
		if filter.From != "" && !strings.Contains(strings.ToLower(r.FromCity), strings.ToLower(filter.From)) {
			continue
		}
		if filter.To != "" && !strings.Contains(strings.ToLower(r.ToCity), strings.ToLower(filter.To)) {
			continue
		}
		if filter.DateFrom != nil && r.DepartureAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !r.DepartureAt.Before(*filter.DateTo) {
			continue
		}
		if r.SeatsAvailable < filter.Passengers {
			continue
		}
		matched = append(matched, m.withDriver(r))
	}
	return page(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (m memRides) FindByDriver(ctx context.Context, driverID uuid.UUID, status *entity.RideStatus, limit, offset int) ([]*entity.Ride, int64, error) {
	defer m.lock()()
	var rides []*entity.Ride
	for _, r := range m.s.rides {
		if r.DriverID == driverID && (status == nil || r.Status == *status) {
			cp := *r
			rides = append(rides, &cp)
		}
	}
	sort.Slice(rides, func(i, j int) bool { return rides[i].DepartureAt.Before(rides[j].DepartureAt) })
	return page(rides, offset, limit), int64(len(rides)), nil
}

func (m memRides) FindNearbyCandidates(ctx context.Context, limit int) ([]*entity.RideWithDriver, error) {
	defer m.lock()()
	var rides []*entity.RideWithDriver
	for _, r := range m.sortedActive() {
		if _, ok := m.s.coords[r.ID]; !ok {
			continue
		}
		rides = append(rides, m.withDriver(r))
		if len(rides) == limit {
			break
		}
	}
	return rides, nil
}

func (m memRides) Update(ctx context.Context, ride *entity.Ride) error {
	defer m.lock()()
	r, ok := m.s.rides[ride.ID]
	if !ok {
		return entity.ErrRideNotFound
	}
	prev := *r
	// counters and status are not written here
	next := *ride
	next.SeatsTotal, next.SeatsAvailable, next.Status = r.SeatsTotal, r.SeatsAvailable, r.Status
	*r = next
	m.j.record(func() {
		prev.SeatsTotal, prev.SeatsAvailable, prev.Status = r.SeatsTotal, r.SeatsAvailable, r.Status
		*r = prev
	})
	return nil
}

func (m memRides) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RideStatus) error {
	defer m.lock()()
	r, ok := m.s.rides[id]
	if !ok {
		return entity.ErrRideNotFound
	}
	prev := r.Status
	r.Status = status
	m.j.record(func() { r.Status = prev })
	return nil
}

func (m memRides) Delete(ctx context.Context, id uuid.UUID) error {
	defer m.lock()()
	r, ok := m.s.rides[id]
	if !ok {
		return entity.ErrRideNotFound
	}
	delete(m.s.rides, id)
	m.j.record(func() { m.s.rides[id] = r })
	return nil
}

type memInventory struct{ *memRepo }

func (m memInventory) Reserve(ctx context.Context, rideID uuid.UUID, seats int) (int, error) {
	if seats < 1 {
		return 0, entity.ErrInvalidSeatCount
	}
	defer m.lock()()
	r, ok := m.s.rides[rideID]
	switch {
	case !ok:
		return 0, entity.ErrRideNotFound
	case r.Status != entity.RideStatusActive:
		return 0, entity.ErrRideNotBookable
	case r.SeatsAvailable < seats:
		return 0, entity.ErrInsufficientSeats
	}
	r.SeatsAvailable -= seats
	m.j.record(func() { r.SeatsAvailable += seats })
	return r.SeatsAvailable, nil
}

func (m memInventory) Release(ctx context.Context, rideID uuid.UUID, seats int) (int, error) {
	if seats < 1 {
		return 0, entity.ErrInvalidSeatCount
	}
	defer m.lock()()
	r, ok := m.s.rides[rideID]
	if !ok {
		return 0, entity.ErrRideNotFound
	}
	prev := r.SeatsAvailable
	r.SeatsAvailable = min(r.SeatsTotal, r.SeatsAvailable+seats)
	delta := r.SeatsAvailable - prev
	m.j.record(func() { r.SeatsAvailable -= delta })
	return r.SeatsAvailable, nil
}

func (m memInventory) Resize(ctx context.Context, rideID uuid.UUID, newTotal int) (int, int, error) {
	if newTotal < 1 {
		return 0, 0, entity.ErrInvalidSeatCount
	}
	defer m.lock()()
	r, ok := m.s.rides[rideID]
	if !ok {
		return 0, 0, entity.ErrRideNotFound
	}
	prevTotal, prevAvailable := r.SeatsTotal, r.SeatsAvailable
	r.SeatsAvailable = max(0, newTotal-(r.SeatsTotal-r.SeatsAvailable))
	r.SeatsTotal = newTotal
	m.j.record(func() { r.SeatsTotal, r.SeatsAvailable = prevTotal, prevAvailable })
	return r.SeatsTotal, r.SeatsAvailable, nil
}

type memCoords struct{ *memRepo }

func (m memCoords) Upsert(ctx context.Context, coords *entity.RideCoordinates) error {
	defer m.lock()()
	cur, ok := m.s.coords[coords.RideID]
	if !ok {
		cur = &entity.RideCoordinates{RideID: coords.RideID}
		m.s.coords[coords.RideID] = cur
	}
	if coords.FromLat != nil {
		cur.FromLat, cur.FromLng = coords.FromLat, coords.FromLng
	}
	if coords.ToLat != nil {
		cur.ToLat, cur.ToLng = coords.ToLat, coords.ToLng
	}
	if coords.FromGeohash != nil {
		cur.FromGeohash = coords.FromGeohash
	}
	cur.UpdatedAt = time.Now()
	return nil
}

func (m memCoords) FindByRideID(ctx context.Context, rideID uuid.UUID) (*entity.RideCoordinates, error) {
	defer m.lock()()
	c, ok := m.s.coords[rideID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type memBookings struct{ *memRepo }

func (m memBookings) Create(ctx context.Context, booking *entity.Booking) error {
	defer m.lock()()
	if m.s.failBookingCreate != nil {
		return m.s.failBookingCreate
	}
	for _, b := range m.s.bookings {
		if b.RideID == booking.RideID && b.PassengerID == booking.PassengerID && b.Status.Active() {
			return entity.ErrDuplicateBooking
		}
	}
	cp := *booking
	m.s.bookings[booking.ID] = &cp
	m.s.bookingOrder = append(m.s.bookingOrder, booking.ID)
	m.j.record(func() { delete(m.s.bookings, booking.ID) })
	return nil
}

func (m memBookings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	defer m.lock()()
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m memBookings) ordered(keep func(*entity.Booking) bool) []*entity.Booking {
	var result []*entity.Booking
	for _, id := range m.s.bookingOrder {
		b, ok := m.s.bookings[id]
		if ok && keep(b) {
			cp := *b
			result = append(result, &cp)
		}
	}
	return result
}

func (m memBookings) FindActiveByRide(ctx context.Context, rideID uuid.UUID) ([]*entity.Booking, error) {
	defer m.lock()()
	return m.ordered(func(b *entity.Booking) bool {
		return b.RideID == rideID && b.Status.Active()
	}), nil
}

func (m memBookings) HasActiveBooking(ctx context.Context, rideID, passengerID uuid.UUID) (bool, error) {
	defer m.lock()()
	for _, b := range m.s.bookings {
		if b.RideID == rideID && b.PassengerID == passengerID && b.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m memBookings) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	defer m.lock()()
	b, ok := m.s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	m.j.record(func() { b.Status = from })
	return true, nil
}

func (m memBookings) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	defer m.lock()()
	b, ok := m.s.bookings[id]
	if !ok {
		return entity.ErrBookingNotFound
	}
	prev := b.PaymentStatus
	b.PaymentStatus = status
	m.j.record(func() { b.PaymentStatus = prev })
	return nil
}

func (m memBookings) List(ctx context.Context, filter entity.BookingFilter) ([]*entity.BookingWithRide, int64, error) {
	defer m.lock()()
	var rows []*entity.BookingWithRide
	for _, b := range m.ordered(func(b *entity.Booking) bool {
		return (filter.PassengerID == nil || b.PassengerID == *filter.PassengerID) &&
			(filter.RideID == nil || b.RideID == *filter.RideID) &&
			(filter.Status == nil || b.Status == *filter.Status)
	}) {
		row := &entity.BookingWithRide{Booking: *b}
		if r, ok := m.s.rides[b.RideID]; ok {
			row.Ride = *r
			row.Driver = m.summary(r.DriverID)
		}
		rows = append(rows, row)
	}
	return page(rows, filter.Offset, filter.Limit), int64(len(rows)), nil
}

func (m memBookings) ListByRide(ctx context.Context, rideID uuid.UUID) ([]*entity.BookingWithPassenger, error) {
	defer m.lock()()
	var rows []*entity.BookingWithPassenger
	for _, b := range m.ordered(func(b *entity.Booking) bool { return b.RideID == rideID }) {
		rows = append(rows, &entity.BookingWithPassenger{Booking: *b, Passenger: m.summary(b.PassengerID)})
	}
	return rows, nil
}

type memProfiles struct{ *memRepo }

func (m memProfiles) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	defer m.lock()()
	p, ok := m.s.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m memProfiles) FindAll(ctx context.Context, limit, offset int) ([]*entity.Profile, error) {
	defer m.lock()()
	var all []*entity.Profile
	for _, p := range m.s.profiles {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID.String() < all[j].UserID.String() })
	return page(all, offset, limit), nil
}

func (m memProfiles) CountAll(ctx context.Context) (int64, error) {
	defer m.lock()()
	return int64(len(m.s.profiles)), nil
}

func (m memProfiles) SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error {
	defer m.lock()()
	p, ok := m.s.profiles[userID]
	if !ok {
		return entity.ErrProfileNotFound
	}
	p.IsBanned = banned
	return nil
}

type memOutbox struct{ *memRepo }

func (m memOutbox) Add(ctx context.Context, events ...*entity.OutboxEvent) error {
	defer m.lock()()
	n := len(m.s.outbox)
	m.s.outbox = append(m.s.outbox, events...)
	m.j.record(func() { m.s.outbox = m.s.outbox[:n] })
	return nil
}

func (m memOutbox) FetchPending(ctx context.Context, limit, maxAttempts int) ([]*entity.OutboxEvent, error) {
	defer m.lock()()
	var pending []*entity.OutboxEvent
	for _, ev := range m.s.outbox {
		if ev.DeliveredAt == nil && ev.Attempts < maxAttempts {
			pending = append(pending, ev)
		}
	}
	return page(pending, 0, limit), nil
}

func (m memOutbox) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	defer m.lock()()
	for _, ev := range m.s.outbox {
		if ev.ID == id {
			now := time.Now()
			ev.DeliveredAt = &now
			ev.Attempts++
		}
	}
	return nil
}

func (m memOutbox) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	defer m.lock()()
	for _, ev := range m.s.outbox {
		if ev.ID == id {
			ev.Attempts++
			ev.LastError = &reason
		}
	}
	return nil
}

type memNotifications struct{ *memRepo }

func (m memNotifications) Create(ctx context.Context, n *entity.Notification) error {
	defer m.lock()()
	for _, existing := range m.s.notifications {
		if existing.ID == n.ID {
			return nil
		}
	}
	cp := *n
	m.s.notifications = append(m.s.notifications, &cp)
	return nil
}

func (m memNotifications) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	defer m.lock()()
	var mine []*entity.Notification
	for _, n := range m.s.notifications {
		if n.UserID == userID {
			cp := *n
			mine = append(mine, &cp)
		}
	}
	return page(mine, offset, limit), nil
}

func (m memNotifications) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer m.lock()()
	var count int64
	for _, n := range m.s.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m memNotifications) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	defer m.lock()()
	for _, n := range m.s.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return entity.ErrNotificationMissing
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
