package services

import (
	"context"
	"fmt"
	"strings"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"

	"github.com/google/uuid"
)

// GroupSchedule — группа со всеми парами; lessons всегда массив
type GroupSchedule struct {
	*models.ScheduleGroup
	Lessons []models.Lesson `json:"lessons"`
}

// ScheduleService — группы и пары: типовые операции плюс публичное расписание
type ScheduleService struct {
	Groups  *ResourceService[models.ScheduleGroup]
	Lessons *ResourceService[models.Lesson]

	groups   repository.ResourceRepository[models.ScheduleGroup]
	schedule repository.ScheduleRepository
}

func NewScheduleService(
	groups repository.ResourceRepository[models.ScheduleGroup],
	lessons repository.ResourceRepository[models.Lesson],
	schedule repository.ScheduleRepository,
) *ScheduleService {
	s := &ScheduleService{groups: groups, schedule: schedule}
	s.Groups = NewResourceService(groups, nil, ResourceConfig[models.ScheduleGroup]{
		Prepare: prepareGroup,
	})
	s.Lessons = NewResourceService(lessons, nil, ResourceConfig[models.Lesson]{
		Prepare: s.prepareLesson,
	})
	return s
}

func prepareGroup(_ context.Context, g *models.ScheduleGroup, _ uuid.UUID) error {
	g.Code = strings.TrimSpace(g.Code)
	if g.Code == "" {
		return apperr.Validation("Field 'code' is required")
	}
	g.Lessons = nil
	return nil
}

func (s *ScheduleService) prepareLesson(ctx context.Context, l *models.Lesson, _ uuid.UUID) error {
	if err := checkSlot("dayOfWeek", l.DayOfWeek); err != nil {
		return err
	}
	if err := checkSlot("lessonNumber", l.LessonNumber); err != nil {
		return err
	}
	l.Subject = strings.TrimSpace(l.Subject)
	if l.Subject == "" {
		return apperr.Validation("Field 'subject' is required")
	}
	if l.GroupID == uuid.Nil {
		return apperr.Validation("Field 'groupId' is required")
	}
	if _, err := s.groups.Get(ctx, l.GroupID); err != nil {
		return apperr.FromDB(err, "Group not found")
	}
	return nil
}

func checkSlot(field string, v models.FlexInt) error {
	if v < models.MinLessonSlot || v > models.MaxLessonSlot {
		return apperr.Validation(fmt.Sprintf("Field '%s' must be between %d and %d", field, models.MinLessonSlot, models.MaxLessonSlot))
	}
	return nil
}

// ListGroups возвращает группы для выбора в расписании
func (s *ScheduleService) ListGroups(ctx context.Context) ([]models.ScheduleGroup, error) {
	return s.schedule.ListGroups(ctx)
}

// GroupByCode возвращает расписание группы по коду
func (s *ScheduleService) GroupByCode(ctx context.Context, code string) (*GroupSchedule, error) {
	group, err := s.schedule.GetGroupByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, apperr.FromDB(err, "Group not found")
	}
	return &GroupSchedule{ScheduleGroup: group, Lessons: group.Lessons}, nil
}
