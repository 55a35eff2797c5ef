package memory

import (
	"context"
	"sort"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/google/uuid"
)

type newsRepository struct {
	s *Store
}

func (r *newsRepository) withAuthor(n entity.News) *entity.News {
	if u, ok := r.s.data.users[n.AuthorId]; ok {
		n.Author = &u
	}
	return &n
}

func (r *newsRepository) Create(ctx context.Context, news *entity.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if news.Id == uuid.Nil {
		news.Id = uuid.New()
	}
	now := r.s.now()
	news.CreatedAt, news.UpdatedAt = now, now
	if news.PublishedAt.IsZero() {
		news.PublishedAt = now
	}
	stored := *news
	stored.Author = nil
	r.s.data.news[news.Id] = stored
	return nil
}

func (r *newsRepository) Update(ctx context.Context, news *entity.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	news.UpdatedAt = r.s.now()
	stored := *news
	stored.Author = nil
	r.s.data.news[news.Id] = stored
	return nil
}

func (r *newsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.news, id)
	return nil
}

func (r *newsRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.data.news[id]; ok {
		return r.withAuthor(n), nil
	}
	return nil, nil
}

func (r *newsRepository) FindAll(ctx context.Context, newsType *entity.NewsType) ([]*entity.News, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.News{}
	for _, n := range r.s.data.news {
		if newsType != nil && n.Type != *newsType {
			continue
		}
		out = append(out, r.withAuthor(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(FailNotificationCreate); err != nil {
		return err
	}
	if notification.Id == uuid.Nil {
		notification.Id = uuid.New()
	}
	notification.CreatedAt = r.s.now()
	r.s.data.notifications[notification.Id] = *notification
	return nil
}

func (r *notificationRepository) FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []*entity.Notification{}
	for _, n := range r.s.data.notifications {
		if n.UserId == userId {
			found := n
			all = append(all, &found)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.Notification{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, item := range r.s.data.notifications {
		if item.UserId == userId && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, userId, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.data.notifications[id]
	if !ok || n.UserId != userId {
		return false, nil
	}
	now := r.s.now()
	n.IsRead, n.ReadAt = true, &now
	r.s.data.notifications[id] = n
	return true, nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for id, n := range r.s.data.notifications {
		if n.UserId == userId && !n.IsRead {
			n.IsRead, n.ReadAt = true, &now
			r.s.data.notifications[id] = n
		}
	}
	return nil
}

func (r *notificationRepository) FindTypeByCode(ctx context.Context, code string) (*entity.NotificationType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.data.notificationTypes[code]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *notificationRepository) UpsertType(ctx context.Context, notificationType *entity.NotificationType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.notificationTypes[notificationType.Code] = *notificationType
	return nil
}
