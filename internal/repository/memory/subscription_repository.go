package memory

import (
	"context"
	"sort"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"

	"github.com/google/uuid"
)

type subscriptionRepository struct {
	s *Store
}

// hydrate must be called with the lock held.
func (r *subscriptionRepository) hydrate(sub entity.Subscription) *entity.Subscription {
	if ct, ok := r.s.data.classTypes[sub.ClassTypeId]; ok {
		sub.ClassType = &ct
	}
	if u, ok := r.s.data.users[sub.UserId]; ok {
		sub.User = &u
	}
	return &sub
}

func strip(sub entity.Subscription) entity.Subscription {
	sub.ClassType, sub.User = nil, nil
	return sub
}

func (r *subscriptionRepository) CreateIfAbsent(ctx context.Context, subscription *entity.Subscription) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(FailSubscriptionCreate); err != nil {
		return false, err
	}
	if subscription.StripeSubscriptionId != nil {
		for _, existing := range r.s.data.subscriptions {
			if existing.StripeSubscriptionId != nil && *existing.StripeSubscriptionId == *subscription.StripeSubscriptionId {
				*subscription = *r.hydrate(existing)
				return false, nil
			}
		}
	}
	if subscription.Id == uuid.Nil {
		subscription.Id = uuid.New()
	}
	now := r.s.now()
	subscription.CreatedAt, subscription.UpdatedAt = now, now
	r.s.data.subscriptions[subscription.Id] = strip(*subscription)
	return true, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(FailSubscriptionUpdate); err != nil {
		return err
	}
	subscription.UpdatedAt = r.s.now()
	r.s.data.subscriptions[subscription.Id] = strip(*subscription)
	return nil
}

func (r *subscriptionRepository) findOne(match func(entity.Subscription) bool) *entity.Subscription {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.Subscription
	for _, sub := range r.s.data.subscriptions {
		if !match(sub) {
			continue
		}
		if best == nil || sub.CreatedAt.After(best.CreatedAt) {
			best = r.hydrate(sub)
		}
	}
	return best
}

func (r *subscriptionRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	return r.findOne(func(s entity.Subscription) bool { return s.Id == id }), nil
}

func (r *subscriptionRepository) FindByStripeSubscriptionId(ctx context.Context, stripeSubscriptionId string) (*entity.Subscription, error) {
	return r.findOne(func(s entity.Subscription) bool {
		return s.StripeSubscriptionId != nil && *s.StripeSubscriptionId == stripeSubscriptionId
	}), nil
}

func (r *subscriptionRepository) FindActiveByUserAndClassType(ctx context.Context, userId, classTypeId uuid.UUID) (*entity.Subscription, error) {
	return r.findOne(func(s entity.Subscription) bool {
		return s.UserId == userId && s.ClassTypeId == classTypeId && s.IsActive()
	}), nil
}

func (r *subscriptionRepository) FindLatestWithCustomer(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	return r.findOne(func(s entity.Subscription) bool {
		return s.UserId == userId && s.StripeCustomerId != nil && *s.StripeCustomerId != ""
	}), nil
}

func (r *subscriptionRepository) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Subscription{}
	for _, sub := range r.s.data.subscriptions {
		if sub.UserId == userId {
			out = append(out, r.hydrate(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *subscriptionRepository) FindActiveMembers(ctx context.Context, classTypeId *uuid.UUID) ([]*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Subscription{}
	for _, sub := range r.s.data.subscriptions {
		if !sub.IsActive() || (classTypeId != nil && sub.ClassTypeId != *classTypeId) {
			continue
		}
		h := r.hydrate(sub)
		if h.User == nil || h.User.Role != entity.UserRoleUser {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].User, out[j].User
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	})
	return out, nil
}

func (r *subscriptionRepository) CountActiveMembersByClassType(ctx context.Context) ([]contract.ClassTypeMemberStat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	members := map[uuid.UUID]map[uuid.UUID]bool{}
	for _, sub := range r.s.data.subscriptions {
		u, ok := r.s.data.users[sub.UserId]
		if !sub.IsActive() || !ok || u.Role != entity.UserRoleUser {
			continue
		}
		if members[sub.ClassTypeId] == nil {
			members[sub.ClassTypeId] = map[uuid.UUID]bool{}
		}
		members[sub.ClassTypeId][sub.UserId] = true
	}
	stats := []contract.ClassTypeMemberStat{}
	for classTypeId, users := range members {
		stats = append(stats, contract.ClassTypeMemberStat{
			ClassTypeId:   classTypeId,
			ClassTypeName: r.s.data.classTypes[classTypeId].Name,
			ActiveMembers: int64(len(users)),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ClassTypeName < stats[j].ClassTypeName })
	return stats, nil
}

type paymentRepository struct {
	s *Store
}

func (r *paymentRepository) CreateIfAbsent(ctx context.Context, payment *entity.Payment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(FailPaymentCreate); err != nil {
		return false, err
	}
	if payment.StripeInvoiceId != nil {
		for _, p := range r.s.data.payments {
			if p.StripeInvoiceId != nil && *p.StripeInvoiceId == *payment.StripeInvoiceId {
				return false, nil
			}
		}
	}
	if payment.Id == uuid.Nil {
		payment.Id = uuid.New()
	}
	payment.CreatedAt = r.s.now()
	stored := *payment
	stored.Subscription = nil
	r.s.data.payments[payment.Id] = stored
	return true, nil
}

func (r *paymentRepository) FindByStripeInvoiceId(ctx context.Context, invoiceId string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.payments {
		if p.StripeInvoiceId != nil && *p.StripeInvoiceId == invoiceId {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *paymentRepository) list(match func(entity.Payment, entity.Subscription) bool) []*entity.Payment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	subs := &subscriptionRepository{s: r.s}
	out := []*entity.Payment{}
	for _, p := range r.s.data.payments {
		sub := r.s.data.subscriptions[p.SubscriptionId]
		if !match(p, sub) {
			continue
		}
		found := p
		found.Subscription = subs.hydrate(sub)
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *paymentRepository) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Payment, error) {
	return r.list(func(_ entity.Payment, sub entity.Subscription) bool { return sub.UserId == userId }), nil
}

func (r *paymentRepository) FindBySubscription(ctx context.Context, subscriptionId uuid.UUID) ([]*entity.Payment, error) {
	return r.list(func(p entity.Payment, _ entity.Subscription) bool { return p.SubscriptionId == subscriptionId }), nil
}

type webhookEventRepository struct {
	s *Store
}

func (r *webhookEventRepository) Record(ctx context.Context, event *entity.WebhookEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *event
	if prev, ok := r.s.data.webhookEvents[event.EventId]; ok {
		stored.Attempts = prev.Attempts + 1
	} else if stored.Attempts == 0 {
		stored.Attempts = 1
	}
	r.s.data.webhookEvents[event.EventId] = stored
	return nil
}
