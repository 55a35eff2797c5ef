package dto

import "github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

const dateLayout = "2006-01-02"

func FromUser(u *entity.User) UserDTO {
	return UserDTO{
		Id:        u.Id,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func personRef(u *entity.User) *PersonRef {
	if u == nil {
		return nil
	}
	return &PersonRef{Id: u.Id, FirstName: u.FirstName, LastName: u.LastName}
}

func classTypeRef(c *entity.ClassType) *ClassTypeRef {
	if c == nil {
		return nil
	}
	return &ClassTypeRef{Id: c.Id, Name: c.Name}
}

func FromClassType(c *entity.ClassType) ClassTypeDTO {
	return ClassTypeDTO{
		Id:           c.Id,
		Name:         c.Name,
		Description:  c.Description,
		MonthlyPrice: c.MonthlyPrice,
		Purchasable:  c.HasPrice(),
	}
}

func FromSchedule(s *entity.ClassSchedule) ScheduleDTO {
	out := ScheduleDTO{
		Id:            s.Id,
		ClassType:     classTypeRef(s.ClassType),
		Trainer:       personRef(s.Trainer),
		DayOfWeek:     s.DayOfWeek,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		IsActive:      s.IsActive,
		Cancellations: make([]CancellationDTO, 0, len(s.Cancellations)),
	}
	for _, c := range s.Cancellations {
		out.Cancellations = append(out.Cancellations, CancellationDTO{
			Id:     c.Id,
			Date:   c.Date.Format(dateLayout),
			Reason: c.Reason,
		})
	}
	return out
}

func FromNews(n *entity.News) NewsDTO {
	return NewsDTO{
		Id:            n.Id,
		Title:         n.Title,
		Content:       n.Content,
		Type:          string(n.Type),
		CoverImageUrl: n.CoverImageUrl,
		PublishedAt:   n.PublishedAt,
		Author:        personRef(n.Author),
	}
}

func FromSubscription(s *entity.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		Id:                 s.Id,
		ClassType:          classTypeRef(s.ClassType),
		Status:             string(s.Status),
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
		CreatedAt:          s.CreatedAt,
	}
}

func FromPayment(p *entity.Payment) PaymentDTO {
	out := PaymentDTO{
		Id:             p.Id,
		SubscriptionId: p.SubscriptionId,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Status:         string(p.Status),
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
	}
	if p.Subscription != nil {
		out.ClassType = classTypeRef(p.Subscription.ClassType)
	}
	return out
}

func FromNotification(n *entity.Notification) NotificationDTO {
	return NotificationDTO{
		Id:         n.Id,
		TypeCode:   n.TypeCode,
		Title:      n.Title,
		Message:    n.Message,
		Metadata:   n.Metadata,
		EntityType: n.EntityType,
		EntityId:   n.EntityId,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

// Map converts a slice with one of the From* functions.
func Map[E any, D any](items []*E, fn func(*E) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
