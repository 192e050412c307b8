package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase/submission"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase/syncqueue"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
)

type (
	Submitter interface {
		Submit(ctx context.Context, s submission.Submission) (submission.Result, error)
	}

	Queue interface {
		Drain(ctx context.Context) (syncqueue.DrainReport, error)
		Pending(ctx context.Context) ([]entity.QueuedSubmission, error)
	}

	Records interface {
		List(ctx context.Context, filter dto.Filter) ([]*entity.Observation, error)
		Get(ctx context.Context, id int64) (*entity.Observation, error)
		Delete(ctx context.Context, id int64) (*entity.Observation, error)
		Pictures(ctx context.Context, seedDataID int64) ([]string, error)
	}

	// Watcher runs until ctx is done, draining the queue whenever the
	// record store comes back.
	Watcher func(ctx context.Context) error
)

var errUsage = errors.New("usage")

const usage = `usage: seedsync [global flags] <command> [flags]

commands:
  submit    submit an observation, queued when the record store is unreachable
  drain     deliver queued submissions now
  queue     show queued submissions
  watch     drain the queue every time the record store becomes reachable
  list      list records
  get       show one record
  delete    delete one record
  pictures  save the pictures of a record to a directory
`

type CLI struct {
	submitter Submitter
	queue     Queue
	records   Records
	watch     Watcher

	out    io.Writer
	logger logger.Interface
}

func New(submitter Submitter, queue Queue, records Records, watch Watcher, out io.Writer, l logger.Interface) *CLI {
	return &CLI{
		submitter: submitter,
		queue:     queue,
		records:   records,
		watch:     watch,
		out:       out,
		logger:    l,
	}
}

// Run executes one command and returns the process exit code.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)

		return 2
	}

	var err error

	switch cmd, rest := args[0], args[1:]; cmd {
	case "submit":
		err = c.submit(ctx, rest)
	case "drain":
		err = c.drain(ctx)
	case "queue":
		err = c.pending(ctx)
	case "watch":
		err = c.watch(ctx)
	case "list":
		err = c.list(ctx, rest)
	case "get":
		err = c.get(ctx, rest)
	case "delete":
		err = c.delete(ctx, rest)
	case "pictures":
		err = c.pictures(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)

		return 0
	default:
		fmt.Fprintf(c.out, "unknown command %q\n\n%s", cmd, usage)

		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(c.out, err)

		return 2
	default:
		c.logger.Error(err, "cli - Run")

		return 1
	}
}
