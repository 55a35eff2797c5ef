package service

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IMemberService interface {
	// List groups active subscriptions per member, keeping the repository's name order.
	List(ctx context.Context, classTypeId *uuid.UUID) ([]dto.MemberDTO, error)
	Stats(ctx context.Context) ([]dto.ClassTypeStatDTO, error)
}

type memberService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMemberService(uowFactory unitofwork.RepositoryFactory) IMemberService {
	return &memberService{uowFactory: uowFactory}
}

func (s *memberService) List(ctx context.Context, classTypeId *uuid.UUID) ([]dto.MemberDTO, error) {
	subs, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindActiveMembers(ctx, classTypeId)
	if err != nil {
		return nil, err
	}

	members := []dto.MemberDTO{}
	index := make(map[uuid.UUID]int)
	for _, sub := range subs {
		if sub.User == nil {
			continue
		}
		i, ok := index[sub.UserId]
		if !ok {
			i = len(members)
			index[sub.UserId] = i
			members = append(members, dto.MemberDTO{
				Id:            sub.User.Id,
				Email:         sub.User.Email,
				FirstName:     sub.User.FirstName,
				LastName:      sub.User.LastName,
				Phone:         sub.User.Phone,
				Subscriptions: []dto.MemberSubscriptionDTO{},
			})
		}

		entry := dto.MemberSubscriptionDTO{
			Id:               sub.Id,
			Status:           string(sub.Status),
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
		}
		if sub.ClassType != nil {
			entry.ClassType = dto.ClassTypeRef{Id: sub.ClassType.Id, Name: sub.ClassType.Name}
		}
		members[i].Subscriptions = append(members[i].Subscriptions, entry)
	}
	return members, nil
}

func (s *memberService) Stats(ctx context.Context) ([]dto.ClassTypeStatDTO, error) {
	stats, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().CountActiveMembersByClassType(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ClassTypeStatDTO, 0, len(stats))
	for _, st := range stats {
		res = append(res, dto.ClassTypeStatDTO{
			ClassTypeId:   st.ClassTypeId,
			ClassTypeName: st.ClassTypeName,
			ActiveMembers: st.ActiveMembers,
		})
	}
	return res, nil
}
