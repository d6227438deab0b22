package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tomm-ai/tomm-assistant/backend/internal/service/task"
	"github.com/tomm-ai/tomm-assistant/backend/internal/storage"
)

func TestAddTrimsAndPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := task.NewService(store)
	ctx := context.Background()

	created, err := svc.Add(ctx, "  beli kopi  ")
	if err != nil {
		t.Fatalf("Add err: %v", err)
	}
	if created.Text != "beli kopi" {
		t.Fatalf("expected trimmed text, got %q", created.Text)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Completed {
		t.Fatal("new task should not be completed")
	}

	reloaded := task.NewService(store)
	tasks := reloaded.Tasks(ctx)
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("expected persisted task, got %+v", tasks)
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	svc := task.NewService(storage.NewMemoryStore())

	if _, err := svc.Add(context.Background(), "   "); !errors.Is(err, task.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if tasks := svc.Tasks(context.Background()); len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}

func TestAddSubTask(t *testing.T) {
	svc := task.NewService(storage.NewMemoryStore())
	ctx := context.Background()

	parent, err := svc.Add(ctx, "belajar Go")
	if err != nil {
		t.Fatalf("Add err: %v", err)
	}

	sub, err := svc.AddSubTask(ctx, parent.ID, "baca dokumentasi")
	if err != nil {
		t.Fatalf("AddSubTask err: %v", err)
	}
	if sub.ID == "" || sub.Text != "baca dokumentasi" {
		t.Fatalf("unexpected sub-task: %+v", sub)
	}

	tasks := svc.Tasks(ctx)
	if len(tasks[0].SubTasks) != 1 || tasks[0].SubTasks[0].ID != sub.ID {
		t.Fatalf("expected sub-task attached, got %+v", tasks[0].SubTasks)
	}

	if _, err := svc.AddSubTask(ctx, "missing", "x"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.AddSubTask(ctx, parent.ID, " "); !errors.Is(err, task.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestToggleTaskAndSubTask(t *testing.T) {
	svc := task.NewService(storage.NewMemoryStore())
	ctx := context.Background()

	parent, _ := svc.Add(ctx, "olahraga")
	sub, _ := svc.AddSubTask(ctx, parent.ID, "lari pagi")

	if err := svc.Toggle(ctx, parent.ID, ""); err != nil {
		t.Fatalf("Toggle task err: %v", err)
	}
	if err := svc.Toggle(ctx, parent.ID, sub.ID); err != nil {
		t.Fatalf("Toggle sub-task err: %v", err)
	}

	got := svc.Tasks(ctx)[0]
	if !got.Completed {
		t.Fatal("expected task completed")
	}
	if !got.SubTasks[0].Completed {
		t.Fatal("expected sub-task completed")
	}

	if err := svc.Toggle(ctx, parent.ID, ""); err != nil {
		t.Fatalf("Toggle back err: %v", err)
	}
	if svc.Tasks(ctx)[0].Completed {
		t.Fatal("expected task toggled back")
	}

	if err := svc.Toggle(ctx, parent.ID, "missing-sub"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for unknown sub-task, got %v", err)
	}
	if err := svc.Toggle(ctx, "missing", ""); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := task.NewService(store)
	ctx := context.Background()

	first, _ := svc.Add(ctx, "satu")
	second, _ := svc.Add(ctx, "dua")

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete err: %v", err)
	}

	tasks := svc.Tasks(ctx)
	if len(tasks) != 1 || tasks[0].ID != second.ID {
		t.Fatalf("expected only second task, got %+v", tasks)
	}

	if err := svc.Delete(ctx, first.ID); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	reloaded := task.NewService(store)
	if got := reloaded.Tasks(ctx); len(got) != 1 {
		t.Fatalf("expected deletion persisted, got %+v", got)
	}
}

func TestTasksReturnsCopies(t *testing.T) {
	svc := task.NewService(storage.NewMemoryStore())
	ctx := context.Background()

	parent, _ := svc.Add(ctx, "asli")
	svc.AddSubTask(ctx, parent.ID, "anak")

	snapshot := svc.Tasks(ctx)
	snapshot[0].Text = "diubah"
	snapshot[0].SubTasks[0].Text = "diubah"

	fresh := svc.Tasks(ctx)
	if fresh[0].Text != "asli" || fresh[0].SubTasks[0].Text != "anak" {
		t.Fatalf("snapshot mutation leaked into service: %+v", fresh[0])
	}
}
