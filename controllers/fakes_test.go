package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zapshift-backend/models"
	"zapshift-backend/statemachine"
	"zapshift-backend/store"
)

// In-memory stores implementing the store interfaces with the documented
// contract, so handlers can be exercised without MongoDB.

type fakeParcelStore struct {
	parcels map[string]*models.Parcel
}

func newFakeParcelStore() *fakeParcelStore {
	return &fakeParcelStore{parcels: make(map[string]*models.Parcel)}
}

func (f *fakeParcelStore) Create(ctx context.Context, parcel *models.Parcel) (string, error) {
	parcel.ID = primitive.NewObjectID()
	parcel.PaymentStatus = models.PaymentUnpaid
	parcel.DeliveryStatus = models.DeliveryNotCollected
	parcel.CreationDate = time.Now()
	copied := *parcel
	f.parcels[parcel.ID.Hex()] = &copied
	return parcel.ID.Hex(), nil
}

func (f *fakeParcelStore) FindByOwner(ctx context.Context, email string) ([]models.Parcel, error) {
	var out []models.Parcel
	for _, p := range f.parcels {
		if p.UserEmail == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeParcelStore) FindByID(ctx context.Context, id string) (*models.Parcel, error) {
	if _, err := store.ParseID(id); err != nil {
		return nil, err
	}
	p, ok := f.parcels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeParcelStore) FindAll(ctx context.Context) ([]models.Parcel, error) {
	var out []models.Parcel
	for _, p := range f.parcels {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeParcelStore) FindAssignable(ctx context.Context) ([]models.Parcel, error) {
	var out []models.Parcel
	for _, p := range f.parcels {
		if p.PaymentStatus == models.PaymentPaid && p.DeliveryStatus == models.DeliveryNotCollected {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeParcelStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if _, err := store.ParseID(id); err != nil {
		return err
	}
	set, err := store.BuildParcelUpdate(fields)
	if err != nil {
		return err
	}
	p, ok := f.parcels[id]
	if !ok {
		return store.ErrNotFound
	}
	if title, ok := set["title"].(string); ok {
		p.Title = title
	}
	if name, ok := set["receiverName"].(string); ok {
		p.ReceiverName = name
	}
	return nil
}

func (f *fakeParcelStore) SetCashoutStatus(ctx context.Context, id, status string) error {
	if _, err := store.ParseID(id); err != nil {
		return err
	}
	p, ok := f.parcels[id]
	if !ok {
		return store.ErrNotFound
	}
	p.CashoutStatus = status
	return nil
}

func (f *fakeParcelStore) MarkPaid(ctx context.Context, id string) error {
	if _, err := store.ParseID(id); err != nil {
		return err
	}
	p, ok := f.parcels[id]
	if !ok {
		return store.ErrNotFound
	}
	p.PaymentStatus = models.PaymentPaid
	return nil
}

func (f *fakeParcelStore) SetDeliveryStatus(ctx context.Context, id, status string) (*models.Parcel, error) {
	if _, err := store.ParseID(id); err != nil {
		return nil, err
	}
	p, ok := f.parcels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if _, err := store.ApplyDeliveryTransition(p, status, time.Now()); err != nil {
		return nil, err
	}
	copied := *p
	return &copied, nil
}

func (f *fakeParcelStore) AssignRider(ctx context.Context, id string, rider models.AssignedRider) error {
	if _, err := store.ParseID(id); err != nil {
		return err
	}
	p, ok := f.parcels[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.PaymentStatus != models.PaymentPaid {
		return fmt.Errorf("%w: parcel is not paid", store.ErrValidation)
	}
	if err := statemachine.CanTransition(p.DeliveryStatus, models.DeliveryAssigned); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	p.AssignedRider = &rider
	p.DeliveryStatus = models.DeliveryAssigned
	return nil
}

func (f *fakeParcelStore) StatusCounts(ctx context.Context) (*store.StatusSummary, error) {
	counts := make(map[string]int64)
	var backlog int64
	for _, p := range f.parcels {
		counts[p.DeliveryStatus]++
		if p.PaymentStatus == models.PaymentPaid && p.DeliveryStatus == models.DeliveryNotCollected {
			backlog++
		}
	}
	summary := &store.StatusSummary{PaidNotAssigned: backlog}
	for status, count := range counts {
		summary.StatusSummary = append(summary.StatusSummary, store.StatusCount{Status: status, Count: count})
	}
	return summary, nil
}

func (f *fakeParcelStore) FindByRiderAndStatus(ctx context.Context, riderEmail string, statuses []string) ([]models.Parcel, error) {
	inSet := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		inSet[s] = true
	}
	var out []models.Parcel
	for _, p := range f.parcels {
		if p.AssignedRider != nil && p.AssignedRider.Email == riderEmail && inSet[p.DeliveryStatus] {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) UpsertOnSignIn(ctx context.Context, user models.User) (*models.User, bool, error) {
	if existing, ok := f.users[user.Email]; ok {
		copied := *existing
		return &copied, false, nil
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.ID = primitive.NewObjectID()
	user.CreationDate = time.Now()
	copied := user
	f.users[user.Email] = &copied
	return &user, true, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) Role(ctx context.Context, email string) (string, error) {
	user, err := f.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.Role == "" {
		return models.RoleUser, nil
	}
	return user.Role, nil
}

func (f *fakeUserStore) PromoteToAdmin(ctx context.Context, email string) error {
	return f.setRole(email, models.RoleAdmin)
}

func (f *fakeUserStore) PromoteToRider(ctx context.Context, email string) error {
	return f.setRole(email, models.RoleRider)
}

func (f *fakeUserStore) setRole(email, role string) error {
	user, ok := f.users[email]
	if !ok {
		return store.ErrNotFound
	}
	user.Role = role
	return nil
}

type fakeRiderStore struct {
	apps  map[string]*models.RiderApplication
	users store.UserStore
}

func newFakeRiderStore(users store.UserStore) *fakeRiderStore {
	return &fakeRiderStore{apps: make(map[string]*models.RiderApplication), users: users}
}

func (f *fakeRiderStore) Apply(ctx context.Context, app *models.RiderApplication) (string, error) {
	app.ID = primitive.NewObjectID()
	app.Status = models.RiderPending
	app.AppliedAt = time.Now()
	copied := *app
	f.apps[app.ID.Hex()] = &copied
	return app.ID.Hex(), nil
}

func (f *fakeRiderStore) FindByStatus(ctx context.Context, status string) ([]models.RiderApplication, error) {
	var out []models.RiderApplication
	for _, a := range f.apps {
		if a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRiderStore) FindAll(ctx context.Context, statusFilter string) ([]models.RiderApplication, error) {
	var out []models.RiderApplication
	for _, a := range f.apps {
		if statusFilter == "" || a.Status == statusFilter {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRiderStore) FindActiveByCity(ctx context.Context, city string) ([]models.RiderApplication, error) {
	var out []models.RiderApplication
	for _, a := range f.apps {
		if a.Status == models.RiderActive && a.City == city {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRiderStore) SetStatus(ctx context.Context, id, status string) (*models.RiderApplication, error) {
	if _, err := store.ParseID(id); err != nil {
		return nil, err
	}
	app, ok := f.apps[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	app.Status = status
	if status == models.RiderActive {
		if err := f.users.PromoteToRider(ctx, app.ApplicantEmail); err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	copied := *app
	return &copied, nil
}

type fakePaymentStore struct {
	payments []models.Payment
}

func (f *fakePaymentStore) Record(ctx context.Context, payment *models.Payment) (string, error) {
	payment.ID = primitive.NewObjectID()
	f.payments = append(f.payments, *payment)
	return payment.ID.Hex(), nil
}

func (f *fakePaymentStore) FindByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTrackingStore struct {
	entries []models.TrackingEntry
}

func (f *fakeTrackingStore) Append(ctx context.Context, entry *models.TrackingEntry) (string, error) {
	entry.ID = primitive.NewObjectID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return entry.ID.Hex(), nil
}

func (f *fakeTrackingStore) Find(ctx context.Context, trackingID string) ([]models.TrackingEntry, error) {
	var out []models.TrackingEntry
	for _, e := range f.entries {
		if trackingID == "" || e.TrackingID == trackingID {
			out = append(out, e)
		}
	}
	return out, nil
}
