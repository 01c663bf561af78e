// Package publish implements the author-side upload-and-publish workflow:
// validate inputs, upload the cover, upload the manuscript, commit the
// metadata record. The three networked steps run strictly in sequence and a
// single failure ends the run. Files uploaded before the failing step are
// left behind with no catalog record pointing at them; nothing reconciles
// those orphans.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bookmarket/internal/book"
	"bookmarket/internal/storage"
	"bookmarket/internal/upload"
)

// State identifies a position in the publish state machine.
type State string

const (
	StateCollectingMetadata  State = "collecting_metadata"
	StateCollectingFiles     State = "collecting_files"
	StateUploadingCover      State = "uploading_cover"
	StateUploadingManuscript State = "uploading_manuscript"
	StateCommitting          State = "committing"
	StateDone                State = "done"
	StateFailed              State = "failed"
)

var (
	// ErrIncompleteMetadata blocks the metadata transition until every
	// text field is filled in.
	ErrIncompleteMetadata = errors.New("all fields are required")
	// ErrInvalidPrice blocks the metadata transition until the price
	// parses as a positive number.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrFilesNotSelected blocks publishing until both files are staged.
	ErrFilesNotSelected = errors.New("both cover image and book file are required")
	// ErrWrongState is returned when an operation is invoked outside the
	// state it belongs to.
	ErrWrongState = errors.New("operation not allowed in current state")
)

// StageError reports which networked stage a run failed in.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", stageLabel(e.Stage), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageLabel(s State) string {
	switch s {
	case StateUploadingCover:
		return "cover upload failed"
	case StateUploadingManuscript:
		return "book file upload failed"
	case StateCommitting:
		return "saving book failed"
	default:
		return string(s)
	}
}

// Metadata holds the author-entered text fields. Price arrives as entered
// and is parsed during the metadata transition.
type Metadata struct {
	Title       string
	Author      string
	Description string
	Category    string
	Price       string
}

// Validator is the advisory pre-upload file check.
type Validator interface {
	ValidateCover(upload.FileInfo) error
	ValidateManuscript(upload.FileInfo) error
}

// Uploader sends one file to the storage backend.
type Uploader interface {
	Upload(ctx context.Context, filename string, content io.Reader) (storage.Ref, error)
}

// Recorder commits the assembled record to the catalog.
type Recorder interface {
	CreateBook(ctx context.Context, b book.Book) (book.Book, error)
}

type stagedFile struct {
	path string
	info upload.FileInfo
}

// Workflow is a single publish attempt's state machine. It is not safe for
// concurrent use; one instance serves one author session.
type Workflow struct {
	validator Validator
	uploader  Uploader
	recorder  Recorder

	state      State
	meta       Metadata
	price      float64
	cover      stagedFile
	manuscript stagedFile
	failure    *StageError
}

func NewWorkflow(validator Validator, uploader Uploader, recorder Recorder) *Workflow {
	return &Workflow{
		validator: validator,
		uploader:  uploader,
		recorder:  recorder,
		state:     StateCollectingMetadata,
	}
}

// State returns the current machine state.
func (w *Workflow) State() State {
	return w.state
}

// Failure returns the error that moved the workflow to StateFailed, if any.
func (w *Workflow) Failure() *StageError {
	return w.failure
}

// SetMetadata gates the CollectingMetadata -> CollectingFiles transition on
// all five fields being non-empty and the price parsing as a positive number.
// It may be called again while files are being collected to amend fields.
func (w *Workflow) SetMetadata(m Metadata) error {
	if w.state != StateCollectingMetadata && w.state != StateCollectingFiles {
		return fmt.Errorf("%w: %s", ErrWrongState, w.state)
	}

	m.Title = strings.TrimSpace(m.Title)
	m.Author = strings.TrimSpace(m.Author)
	m.Description = strings.TrimSpace(m.Description)
	m.Category = strings.TrimSpace(m.Category)
	m.Price = strings.TrimSpace(m.Price)

	if m.Title == "" || m.Author == "" || m.Description == "" || m.Category == "" || m.Price == "" {
		return ErrIncompleteMetadata
	}
	price, err := strconv.ParseFloat(m.Price, 64)
	if err != nil || price <= 0 {
		return ErrInvalidPrice
	}

	w.meta = m
	w.price = price
	w.state = StateCollectingFiles
	return nil
}

// AttachFiles stages the selected cover and manuscript after running the
// file validator over both. Validation failures leave the selection cleared
// so the author can pick again.
func (w *Workflow) AttachFiles(coverPath, manuscriptPath string) error {
	if w.state != StateCollectingFiles {
		return fmt.Errorf("%w: %s", ErrWrongState, w.state)
	}
	if coverPath == "" || manuscriptPath == "" {
		return ErrFilesNotSelected
	}

	coverInfo, err := upload.Stat(coverPath)
	if err != nil {
		return err
	}
	manuscriptInfo, err := upload.Stat(manuscriptPath)
	if err != nil {
		return err
	}

	if err := w.validator.ValidateCover(coverInfo); err != nil {
		return err
	}
	if err := w.validator.ValidateManuscript(manuscriptInfo); err != nil {
		return err
	}

	w.cover = stagedFile{path: coverPath, info: coverInfo}
	w.manuscript = stagedFile{path: manuscriptPath, info: manuscriptInfo}
	return nil
}

// Publish runs the networked stages: cover upload, manuscript upload, then
// the catalog commit. The first failure moves the machine to StateFailed and
// halts; earlier uploads are not cleaned up. On success all staging state is
// discarded and the stored record is returned.
func (w *Workflow) Publish(ctx context.Context) (book.Book, error) {
	if w.state != StateCollectingFiles {
		return book.Book{}, fmt.Errorf("%w: %s", ErrWrongState, w.state)
	}
	if w.cover.path == "" || w.manuscript.path == "" {
		return book.Book{}, ErrFilesNotSelected
	}

	w.state = StateUploadingCover
	coverRef, err := w.uploadStaged(ctx, w.cover)
	if err != nil {
		return book.Book{}, w.fail(StateUploadingCover, err)
	}

	w.state = StateUploadingManuscript
	manuscriptRef, err := w.uploadStaged(ctx, w.manuscript)
	if err != nil {
		// The cover is uploaded already and is now orphaned.
		return book.Book{}, w.fail(StateUploadingManuscript, err)
	}

	w.state = StateCommitting
	stored, err := w.recorder.CreateBook(ctx, book.Book{
		Title:       w.meta.Title,
		Author:      w.meta.Author,
		Description: w.meta.Description,
		Category:    w.meta.Category,
		Price:       w.price,
		BookFile:    manuscriptRef,
		CoverImage:  coverRef,
	})
	if err != nil {
		// Both uploads are orphaned at this point.
		return book.Book{}, w.fail(StateCommitting, err)
	}

	w.state = StateDone
	w.reset()
	return stored, nil
}

// Retry moves a failed workflow back to CollectingFiles. Staging state was
// preserved on failure, so the author may publish again; the next run
// re-uploads both files regardless of which step failed before.
func (w *Workflow) Retry() error {
	if w.state != StateFailed {
		return fmt.Errorf("%w: %s", ErrWrongState, w.state)
	}
	w.failure = nil
	w.state = StateCollectingFiles
	return nil
}

func (w *Workflow) uploadStaged(ctx context.Context, f stagedFile) (storage.Ref, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return storage.Ref{}, err
	}
	defer file.Close()
	return w.uploader.Upload(ctx, f.info.Name, file)
}

func (w *Workflow) fail(stage State, err error) error {
	w.failure = &StageError{Stage: stage, Err: err}
	w.state = StateFailed
	return w.failure
}

func (w *Workflow) reset() {
	w.meta = Metadata{}
	w.price = 0
	w.cover = stagedFile{}
	w.manuscript = stagedFile{}
	w.failure = nil
}
