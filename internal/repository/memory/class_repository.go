package memory

import (
	"context"
	"sort"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"

	"github.com/google/uuid"
)

type classTypeRepository struct {
	s *Store
}

func (r *classTypeRepository) Create(ctx context.Context, classType *entity.ClassType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.classTypes {
		if c.Name == classType.Name {
			return contract.ErrDuplicate
		}
	}
	if classType.Id == uuid.Nil {
		classType.Id = uuid.New()
	}
	now := r.s.now()
	classType.CreatedAt, classType.UpdatedAt = now, now
	r.s.data.classTypes[classType.Id] = *classType
	return nil
}

func (r *classTypeRepository) FindAll(ctx context.Context) ([]*entity.ClassType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	types := make([]*entity.ClassType, 0, len(r.s.data.classTypes))
	for _, c := range r.s.data.classTypes {
		found := c
		types = append(types, &found)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

func (r *classTypeRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.ClassType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.data.classTypes[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *classTypeRepository) FindByName(ctx context.Context, name string) (*entity.ClassType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.classTypes {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *classTypeRepository) UpdatePriceId(ctx context.Context, id uuid.UUID, priceId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.classTypes[id]
	if !ok {
		return nil
	}
	c.StripePriceId = &priceId
	c.UpdatedAt = r.s.now()
	r.s.data.classTypes[id] = c
	return nil
}

type scheduleRepository struct {
	s *Store
}

// withRelations must be called with the lock held.
func (r *scheduleRepository) withRelations(sc entity.ClassSchedule) *entity.ClassSchedule {
	if ct, ok := r.s.data.classTypes[sc.ClassTypeId]; ok {
		sc.ClassType = &ct
	}
	if u, ok := r.s.data.users[sc.TrainerId]; ok {
		sc.Trainer = &u
	}
	return &sc
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.ClassSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if schedule.Id == uuid.Nil {
		schedule.Id = uuid.New()
	}
	now := r.s.now()
	schedule.CreatedAt, schedule.UpdatedAt = now, now
	stored := *schedule
	stored.ClassType, stored.Trainer, stored.Cancellations = nil, nil, nil
	r.s.data.schedules[schedule.Id] = stored
	return nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *entity.ClassSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	schedule.UpdatedAt = r.s.now()
	stored := *schedule
	stored.ClassType, stored.Trainer, stored.Cancellations = nil, nil, nil
	r.s.data.schedules[schedule.Id] = stored
	return nil
}

func (r *scheduleRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.ClassSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sc, ok := r.s.data.schedules[id]; ok {
		return r.withRelations(sc), nil
	}
	return nil, nil
}

func (r *scheduleRepository) FindActive(ctx context.Context, dayOfWeek *int) ([]*entity.ClassSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.ClassSchedule{}
	for _, sc := range r.s.data.schedules {
		if !sc.IsActive || (dayOfWeek != nil && sc.DayOfWeek != *dayOfWeek) {
			continue
		}
		out = append(out, r.withRelations(sc))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *scheduleRepository) FindConflicts(ctx context.Context, dayOfWeek int, start, end string, excludeId *uuid.UUID) ([]*entity.ClassSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.ClassSchedule{}
	for _, sc := range r.s.data.schedules {
		if excludeId != nil && sc.Id == *excludeId {
			continue
		}
		if sc.Overlaps(dayOfWeek, start, end) {
			found := sc
			out = append(out, &found)
		}
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (r *scheduleRepository) CreateCancellation(ctx context.Context, cancellation *entity.ClassCancellation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.cancellations {
		if c.ClassScheduleId == cancellation.ClassScheduleId && sameDay(c.Date, cancellation.Date) {
			return contract.ErrDuplicate
		}
	}
	if cancellation.Id == uuid.Nil {
		cancellation.Id = uuid.New()
	}
	cancellation.CreatedAt = r.s.now()
	r.s.data.cancellations[cancellation.Id] = *cancellation
	return nil
}

func (r *scheduleRepository) FindCancellation(ctx context.Context, scheduleId uuid.UUID, date time.Time) (*entity.ClassCancellation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.cancellations {
		if c.ClassScheduleId == scheduleId && sameDay(c.Date, date) {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *scheduleRepository) FindCancellations(ctx context.Context, scheduleIds []uuid.UUID, from, to *time.Time) ([]*entity.ClassCancellation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(scheduleIds))
	for _, id := range scheduleIds {
		wanted[id] = true
	}
	out := []*entity.ClassCancellation{}
	for _, c := range r.s.data.cancellations {
		if !wanted[c.ClassScheduleId] {
			continue
		}
		if from != nil && c.Date.Before(*from) {
			continue
		}
		if to != nil && c.Date.After(*to) {
			continue
		}
		found := c
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
