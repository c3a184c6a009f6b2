package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func TestNewsService_Slug(t *testing.T) {
	env := newTestEnv(t)

	n := env.news.New()
	n.Title = "  День открытых дверей  "
	n.FullText = "Приглашаем абитуриентов"
	created, err := env.news.Create(bg, n)
	if err != nil {
		t.Fatalf("ошибка создания новости: %v", err)
	}
	if created.Title != "День открытых дверей" {
		t.Errorf("заголовок не обрезан: %q", created.Title)
	}
	if created.Slug == "" || created.Slug != MakeSlug("День открытых дверей") || !slug.IsSlug(created.Slug) {
		t.Errorf("неожиданный slug: %q", created.Slug)
	}
	if created.PublishedAt.IsZero() {
		t.Error("дата публикации не заполнена")
	}
	if created.Images == nil || created.Attachments == nil {
		t.Error("списки файлов должны быть пустыми массивами")
	}

	dup := env.news.New()
	dup.Title = "день открытых дверей"
	dup.FullText = "Повтор"
	_, err = env.news.Create(bg, dup)
	wantKind(t, err, apperr.KindValidation)

	updated, err := env.news.Update(bg, created.ID, []byte(`{"title":"Выпускной 2025"}`))
	if err != nil {
		t.Fatalf("ошибка обновления: %v", err)
	}
	if updated.Slug == created.Slug || updated.Slug != MakeSlug("Выпускной 2025") {
		t.Errorf("slug не пересчитан: %q", updated.Slug)
	}
	if updated.FullText != "Приглашаем абитуриентов" {
		t.Errorf("текст затерт: %q", updated.FullText)
	}

	// Новость может сохранить свой же заголовок
	if _, err := env.news.Update(bg, created.ID, []byte(`{"title":"Выпускной 2025"}`)); err != nil {
		t.Errorf("повторное сохранение заголовка: %v", err)
	}

	empty := env.news.New()
	empty.Title = "!!!"
	empty.FullText = "текст"
	_, err = env.news.Create(bg, empty)
	wantKind(t, err, apperr.KindValidation)
}

type announcement struct {
	title, summary, path string
}

type fakeAnnouncer struct {
	sent chan announcement
	err  error
}

func (f *fakeAnnouncer) AnnounceNews(_ context.Context, title, summary, path string) error {
	f.sent <- announcement{title, summary, path}
	return f.err
}

func TestNewsService_Announce(t *testing.T) {
	env := newTestEnv(t)
	announcer := &fakeAnnouncer{sent: make(chan announcement, 4), err: errors.New("telegram недоступен")}
	env.news.SetAnnouncer(announcer)

	n := env.news.New()
	n.Title = "Выпускной"
	n.ShortText = "Поздравляем выпускников"
	n.FullText = "Текст"
	created, err := env.news.Create(bg, n)
	if err != nil {
		t.Fatalf("ошибка канала не должна мешать созданию: %v", err)
	}

	select {
	case got := <-announcer.sent:
		if got.title != "Выпускной" || got.summary != "Поздравляем выпускников" || got.path != "/news/"+created.Slug {
			t.Errorf("неожиданный анонс: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("анонс не отправлен")
	}

	hidden := env.news.New()
	hidden.Title = "Черновик"
	hidden.FullText = "Текст"
	hidden.IsActive = false
	if _, err := env.news.Create(bg, hidden); err != nil {
		t.Fatal(err)
	}
	future := env.news.New()
	future.Title = "Будущая новость"
	future.FullText = "Текст"
	future.PublishedAt = time.Now().Add(24 * time.Hour)
	if _, err := env.news.Create(bg, future); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-announcer.sent:
		t.Errorf("скрытая или отложенная новость анонсирована: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewsService_Published(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	add := func(title string, publishedAt time.Time, active bool) *models.NewsArticle {
		n := env.news.New()
		n.Title = title
		n.FullText = "текст"
		n.PublishedAt = publishedAt
		n.IsActive = active
		created, err := env.news.Create(bg, n)
		if err != nil {
			t.Fatalf("ошибка создания %q: %v", title, err)
		}
		return created
	}
	old := add("Старая", now.Add(-48*time.Hour), true)
	add("Новая", now.Add(-time.Hour), true)
	add("Будущая", now.Add(48*time.Hour), true)
	hidden := add("Скрытая", now.Add(-2*time.Hour), false)

	page, err := env.news.ListPublished(bg, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || page.Limit != DefaultNewsLimit || len(page.Items) != 2 {
		t.Fatalf("неожиданная страница: total=%d limit=%d items=%d", page.Total, page.Limit, len(page.Items))
	}
	if page.Items[0].Title != "Новая" || page.Items[1].Title != "Старая" {
		t.Errorf("неверный порядок: %s, %s", page.Items[0].Title, page.Items[1].Title)
	}

	page, _ = env.news.ListPublished(bg, 1000, 1)
	if page.Limit != MaxNewsLimit || len(page.Items) != 1 || page.Total != 2 {
		t.Errorf("смещение и предел: %+v", page)
	}

	got, err := env.news.GetPublished(bg, old.Slug)
	if err != nil || got.ID != old.ID {
		t.Errorf("поиск по slug: %v", err)
	}
	if _, err := env.news.GetPublished(bg, old.ID.String()); err != nil {
		t.Errorf("поиск по id: %v", err)
	}
	_, err = env.news.GetPublished(bg, hidden.Slug)
	wantKind(t, err, apperr.KindNotFound)
	_, err = env.news.GetPublished(bg, "net-takoi")
	wantKind(t, err, apperr.KindNotFound)
}

func newScheduleService(env *testEnv) *ScheduleService {
	db := env.db.DB
	return NewScheduleService(
		repository.NewResourceRepository[models.ScheduleGroup](db, repository.ScheduleGroupSchema),
		repository.NewResourceRepository[models.Lesson](db, repository.LessonSchema),
		repository.NewScheduleRepository(db),
	)
}

func TestScheduleService(t *testing.T) {
	env := newTestEnv(t)
	svc := newScheduleService(env)

	group := svc.Groups.New()
	group.Code = " ИС-21 "
	group.Name = "Информационные системы"
	group, err := svc.Groups.Create(bg, group)
	if err != nil {
		t.Fatalf("ошибка создания группы: %v", err)
	}
	if group.Code != "ИС-21" {
		t.Errorf("код не обрезан: %q", group.Code)
	}

	view, err := svc.GroupByCode(bg, "ИС-21")
	if err != nil {
		t.Fatal(err)
	}
	if view.Lessons == nil || len(view.Lessons) != 0 {
		t.Errorf("у новой группы должен быть пустой список пар: %v", view.Lessons)
	}

	lesson := func(day, number int64, subject string) *models.Lesson {
		return &models.Lesson{GroupID: group.ID, DayOfWeek: models.FlexInt(day), LessonNumber: models.FlexInt(number), Subject: subject}
	}
	for _, l := range []*models.Lesson{lesson(2, 1, "Физика"), lesson(1, 2, "История"), lesson(1, 1, "Математика")} {
		if _, err := svc.Lessons.Create(bg, l); err != nil {
			t.Fatalf("ошибка создания пары: %v", err)
		}
	}

	_, err = svc.Lessons.Create(bg, lesson(6, 1, "Суббота"))
	wantKind(t, err, apperr.KindValidation)
	_, err = svc.Lessons.Create(bg, lesson(1, 0, "Нулевая"))
	wantKind(t, err, apperr.KindValidation)
	_, err = svc.Lessons.Create(bg, lesson(1, 1, "Занято"))
	wantKind(t, err, apperr.KindConflict)

	stray := lesson(3, 3, "Без группы")
	stray.GroupID = uuid.New()
	_, err = svc.Lessons.Create(bg, stray)
	wantKind(t, err, apperr.KindNotFound)

	view, err = svc.GroupByCode(bg, "ИС-21")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Математика", "История", "Физика"}
	if len(view.Lessons) != len(want) {
		t.Fatalf("ожидалось %d пар, получено %d", len(want), len(view.Lessons))
	}
	for i, w := range want {
		if view.Lessons[i].Subject != w {
			t.Errorf("пара %d: %q, ожидалось %q", i, view.Lessons[i].Subject, w)
		}
	}

	_, err = svc.GroupByCode(bg, "НЕТ-1")
	wantKind(t, err, apperr.KindNotFound)

	groups, err := svc.ListGroups(bg)
	if err != nil || len(groups) != 1 {
		t.Errorf("список групп: %v, %d", err, len(groups))
	}

	if err := svc.Groups.Delete(bg, group.ID); err != nil {
		t.Fatal(err)
	}
	left, _ := svc.Lessons.List(bg, false)
	if len(left) != 0 {
		t.Errorf("пары удаленной группы должны удаляться каскадно, осталось %d", len(left))
	}
}

func TestResourceService_UpsertByNaturalKey(t *testing.T) {
	env := newTestEnv(t)
	oldURL := uploadOne(t, env, models.CategoryDocuments, pdfFile("лицензия-2020.pdf"))
	newURL := uploadOne(t, env, models.CategoryDocuments, pdfFile("лицензия-2024.pdf"))

	doc := env.catalog.Documents.New()
	doc.Field = "license"
	doc.Title = "Лицензия"
	doc.FileURL = oldURL
	first, err := env.catalog.Documents.Upsert(bg, doc)
	if err != nil {
		t.Fatalf("ошибка первой записи: %v", err)
	}

	doc = env.catalog.Documents.New()
	doc.Field = " license "
	doc.Title = "Лицензия (новая)"
	doc.FileURL = newURL
	second, err := env.catalog.Documents.Upsert(bg, doc)
	if err != nil {
		t.Fatalf("ошибка повторной записи: %v", err)
	}
	if second.ID != first.ID {
		t.Error("повторная запись по ключу должна обновлять ту же строку")
	}
	if second.Title != "Лицензия (новая)" {
		t.Errorf("заголовок не обновлен: %q", second.Title)
	}
	all, _ := env.catalog.Documents.List(bg, false)
	if len(all) != 1 {
		t.Errorf("ожидалась одна запись, получено %d", len(all))
	}
	if env.store.Exists(relPath(oldURL)) {
		t.Error("замененный файл должен быть освобожден")
	}

	slide := env.catalog.Slides.New()
	slide.Image = newURL
	_, err = env.catalog.Slides.Upsert(bg, slide)
	wantKind(t, err, apperr.KindValidation)
}

func TestResourceService_ActiveAndDefaults(t *testing.T) {
	env := newTestEnv(t)

	hidden := env.catalog.Announcements.New()
	hidden.Title = "Черновик"
	hidden.IsActive = false
	hidden, err := env.catalog.Announcements.Create(bg, hidden)
	if err != nil {
		t.Fatal(err)
	}
	_, err = env.catalog.Announcements.GetActive(bg, hidden.ID)
	wantKind(t, err, apperr.KindNotFound)
	if _, err := env.catalog.Announcements.Get(bg, hidden.ID); err != nil {
		t.Errorf("администратор видит скрытую запись: %v", err)
	}

	visible := env.catalog.Announcements.New()
	if !visible.IsActive {
		t.Error("новая запись должна быть активной по умолчанию")
	}

	start := time.Now()
	end := start.Add(-time.Hour)
	bad := env.catalog.Announcements.New()
	bad.Title = "Неверный срок"
	bad.StartsAt, bad.EndsAt = &start, &end
	_, err = env.catalog.Announcements.Create(bg, bad)
	wantKind(t, err, apperr.KindValidation)

	_, err = env.catalog.Specialties.Create(bg, &models.Specialty{Name: "Без кода"})
	wantKind(t, err, apperr.KindValidation)

	spec := &models.Specialty{Code: "09.02.07", Name: "Программист"}
	if _, err := env.catalog.Specialties.Create(bg, spec); err != nil {
		t.Fatal(err)
	}
	_, err = env.catalog.Specialties.Create(bg, &models.Specialty{Code: "09.02.07", Name: "Повтор"})
	wantKind(t, err, apperr.KindConflict)

	_, err = env.catalog.Specialties.Get(bg, uuid.New())
	wantKind(t, err, apperr.KindNotFound)
	wantKind(t, env.catalog.Specialties.Delete(bg, uuid.New()), apperr.KindNotFound)
}
