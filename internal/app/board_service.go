package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/scrumban/internal/core/board"
	"github.com/example/scrumban/internal/core/report"
	"github.com/example/scrumban/internal/ports/primary"
	"github.com/example/scrumban/internal/ports/secondary"
)

// BoardServiceImpl implements the BoardService interface.
// The board is loaded from the store on first use.
type BoardServiceImpl struct {
	store           secondary.BoardStore
	notifier        secondary.Notifier
	encodeCompleted secondary.CompletedEncoder
	limits          board.Limits
	logger          *slog.Logger
	now             func() time.Time

	board *board.Board
}

// BoardServiceOption configures a BoardServiceImpl.
type BoardServiceOption func(*BoardServiceImpl)

// WithClock sets the clock used for completion dates and report dates.
func WithClock(now func() time.Time) BoardServiceOption {
	return func(s *BoardServiceImpl) {
		s.now = now
	}
}

// NewBoardService creates a new BoardService with injected dependencies.
// notifier may be nil, in which case reports are always skipped.
func NewBoardService(
	store secondary.BoardStore,
	notifier secondary.Notifier,
	encodeCompleted secondary.CompletedEncoder,
	limits board.Limits,
	logger *slog.Logger,
	opts ...BoardServiceOption,
) *BoardServiceImpl {
	s := &BoardServiceImpl{
		store:           store,
		notifier:        notifier,
		encodeCompleted: encodeCompleted,
		limits:          limits,
		logger:          logger,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBoard returns a read-only view of the whole board.
func (s *BoardServiceImpl) GetBoard(ctx context.Context) (*primary.Board, error) {
	b, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	view := &primary.Board{
		Backlog:   tasksToDTO(b.Backlog()),
		Todo:      tasksToDTO(b.Todo()),
		Completed: tasksToDTO(b.Completed()),
		Agenda:    b.Agenda(),
		Notes:     b.Notes(),
		TodoLimit: b.TodoLimit(),
		TaskLimit: b.TaskLimit(),
	}
	for _, m := range b.Members() {
		view.Members = append(view.Members, primary.Member{
			Name:  m.Name(),
			Email: m.Email(),
			Tasks: tasksToDTO(m.Tasks()),
			Notes: m.Notes(),
		})
	}
	return view, nil
}

// RefillTodo moves backlog tasks into todo up to the todo limit.
func (s *BoardServiceImpl) RefillTodo(ctx context.Context) (int, error) {
	b, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	moved := b.RefillTodo()
	s.logger.Debug("refilled todo", "moved", moved)
	return moved, nil
}

// AssignTask moves a todo task to a member.
func (s *BoardServiceImpl) AssignTask(ctx context.Context, req primary.AssignTaskRequest) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := b.AssignToMember(req.MemberIndex, req.TodoIndex); err != nil {
		s.logger.Warn("assign rejected", "member", req.MemberIndex, "todo", req.TodoIndex, "error", err)
		return fmt.Errorf("failed to assign task: %w", err)
	}
	s.logger.Info("task assigned", "member", req.MemberIndex, "todo", req.TodoIndex)
	return nil
}

// TransferTask moves a task between two members.
func (s *BoardServiceImpl) TransferTask(ctx context.Context, req primary.TransferTaskRequest) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := b.TransferMemberToMember(req.FromMemberIndex, req.ToMemberIndex, req.TaskIndex); err != nil {
		s.logger.Warn("transfer rejected", "from", req.FromMemberIndex, "to", req.ToMemberIndex, "task", req.TaskIndex, "error", err)
		return fmt.Errorf("failed to move task: %w", err)
	}
	s.logger.Info("task transferred", "from", req.FromMemberIndex, "to", req.ToMemberIndex, "task", req.TaskIndex)
	return nil
}

// ReturnTask moves a member's task back to todo.
func (s *BoardServiceImpl) ReturnTask(ctx context.Context, req primary.MemberTaskRequest) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := b.ReturnToTodo(req.MemberIndex, req.TaskIndex); err != nil {
		s.logger.Warn("return rejected", "member", req.MemberIndex, "task", req.TaskIndex, "error", err)
		return fmt.Errorf("failed to return task: %w", err)
	}
	s.logger.Info("task returned to todo", "member", req.MemberIndex, "task", req.TaskIndex)
	return nil
}

// CompleteTask moves a member's task to the completed log.
func (s *BoardServiceImpl) CompleteTask(ctx context.Context, req primary.MemberTaskRequest) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := b.Complete(req.MemberIndex, req.TaskIndex); err != nil {
		s.logger.Warn("complete rejected", "member", req.MemberIndex, "task", req.TaskIndex, "error", err)
		return fmt.Errorf("failed to complete task: %w", err)
	}
	s.logger.Info("task completed", "member", req.MemberIndex, "task", req.TaskIndex)
	return nil
}

// RestoreTask moves a completed task back to todo.
func (s *BoardServiceImpl) RestoreTask(ctx context.Context, completedIndex int) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := b.RestoreFromCompleted(completedIndex); err != nil {
		s.logger.Warn("restore rejected", "completed", completedIndex, "error", err)
		return fmt.Errorf("failed to restore task: %w", err)
	}
	s.logger.Info("task restored", "completed", completedIndex)
	return nil
}

// SetAgenda replaces the meeting agenda.
func (s *BoardServiceImpl) SetAgenda(ctx context.Context, items []string) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	b.SetAgenda(items)
	return nil
}

// SetNotes replaces the general meeting notes.
func (s *BoardServiceImpl) SetNotes(ctx context.Context, notes string) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	b.SetNotes(notes)
	return nil
}

// SetMemberNotes replaces one member's notes.
func (s *BoardServiceImpl) SetMemberNotes(ctx context.Context, memberIndex int, notes string) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := b.SetMemberNotes(memberIndex, notes); err != nil {
		return fmt.Errorf("failed to set member notes: %w", err)
	}
	return nil
}

// FindMember resolves a member name to its index.
func (s *BoardServiceImpl) FindMember(ctx context.Context, name string) (int, error) {
	b, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	idx, ok := b.MemberIndex(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", board.ErrMemberNotFound, strings.TrimSpace(name))
	}
	return idx, nil
}

// SendReports emails one report per member. Delivery is best-effort: when
// the notifier reports ErrResourceUnavailable the remaining members are
// skipped and the response says why. The board is never modified.
func (s *BoardServiceImpl) SendReports(ctx context.Context, req primary.SendReportsRequest) (*primary.SendReportsResponse, error) {
	b, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	completed := s.encodeCompleted(now, b.CompletedFields())
	resp := &primary.SendReportsResponse{Failed: map[string]string{}}

	if s.notifier == nil && !req.DryRun {
		resp.Skipped = true
		resp.Reason = "no notifier configured"
	}

	for _, m := range b.Members() {
		msg := buildReportMessage(now, m, b.Notes(), completed)
		resp.Messages = append(resp.Messages, msg)

		if req.DryRun || resp.Skipped {
			continue
		}

		if err := s.notifier.Send(ctx, msg); err != nil {
			if errors.Is(err, secondary.ErrResourceUnavailable) {
				s.logger.Warn("skipping report delivery", "error", err)
				resp.Skipped = true
				resp.Reason = err.Error()
				continue
			}
			s.logger.Error("report delivery failed", "member", m.Name(), "error", err)
			resp.Failed[m.Name()] = err.Error()
			continue
		}
		s.logger.Info("report sent", "member", m.Name(), "to", m.Email())
		resp.Sent = append(resp.Sent, m.Name())
	}

	return resp, nil
}

// Save persists the board.
func (s *BoardServiceImpl) Save(ctx context.Context) error {
	if s.board == nil {
		return nil
	}
	if err := s.store.Save(ctx, snapshotFromBoard(s.board)); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}
	s.logger.Debug("board saved")
	return nil
}

// Reset clears the stored session state and drops the loaded board.
func (s *BoardServiceImpl) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset board: %w", err)
	}
	s.board = nil
	s.logger.Info("board reset")
	return nil
}

// load reads and constructs the board once per service.
func (s *BoardServiceImpl) load(ctx context.Context) (*board.Board, error) {
	if s.board != nil {
		return s.board, nil
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	members := make([]board.Member, len(snap.Members))
	for i, m := range snap.Members {
		members[i] = board.NewMember(m.Name, m.Email, recordsToTasks(m.Tasks), m.Notes)
	}

	b, err := board.New(s.limits,
		recordsToTasks(snap.Backlog),
		recordsToTasks(snap.Todo),
		members,
		recordsToTasks(snap.Completed),
		snap.Agenda,
		board.WithClock(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}
	b.SetNotes(snap.Notes)

	s.logger.Debug("board loaded",
		"backlog", len(snap.Backlog),
		"todo", len(b.Todo()),
		"members", len(members),
		"completed", len(snap.Completed),
	)
	s.board = b
	return b, nil
}

func buildReportMessage(now time.Time, m board.Member, notes string, completed []byte) *secondary.Message {
	body := report.Build(report.Input{Date: now, Member: m, GeneralNotes: notes})
	return &secondary.Message{
		To:      m.Email(),
		ToName:  m.Name(),
		Subject: report.Subject(now),
		Body:    report.Summary(now, m.Name()),
		Attachments: []secondary.Attachment{
			{Filename: report.ReportFilename(now, m.Name()), ContentType: "text/plain; charset=utf-8", Data: []byte(body)},
			{Filename: report.CompletedFilename(now), ContentType: "text/csv; charset=utf-8", Data: completed},
		},
	}
}

func snapshotFromBoard(b *board.Board) *secondary.Snapshot {
	snap := &secondary.Snapshot{
		Backlog:   tasksToRecords(b.Backlog()),
		Todo:      tasksToRecords(b.Todo()),
		Completed: tasksToRecords(b.Completed()),
		Agenda:    b.Agenda(),
		Notes:     b.Notes(),
	}
	for _, m := range b.Members() {
		snap.Members = append(snap.Members, secondary.MemberRecord{
			Name:  m.Name(),
			Email: m.Email(),
			Tasks: tasksToRecords(m.Tasks()),
			Notes: m.Notes(),
		})
	}
	return snap
}

func recordsToTasks(records []secondary.TaskRecord) []board.Task {
	if len(records) == 0 {
		return nil
	}
	tasks := make([]board.Task, len(records))
	for i, r := range records {
		tasks[i] = board.NewTask(r.Name, r.Priority, r.DueDate, r.CompletedDate)
	}
	return tasks
}

func tasksToRecords(tasks []board.Task) []secondary.TaskRecord {
	if len(tasks) == 0 {
		return nil
	}
	records := make([]secondary.TaskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = secondary.TaskRecord{
			Name:          t.Name(),
			Priority:      t.Priority(),
			DueDate:       t.DueDate(),
			CompletedDate: t.CompletedDate(),
		}
	}
	return records
}

func tasksToDTO(tasks []board.Task) []primary.Task {
	if len(tasks) == 0 {
		return nil
	}
	dto := make([]primary.Task, len(tasks))
	for i, t := range tasks {
		dto[i] = primary.Task{
			Name:          t.Name(),
			Priority:      t.Priority(),
			DueDate:       t.DueDate(),
			CompletedDate: t.CompletedDate(),
		}
	}
	return dto
}
