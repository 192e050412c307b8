package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase/submission"
	"github.com/andreyxaxa/Seed-Manager/pkg/picturecodec"
	"github.com/spf13/pflag"
)

func (c *CLI) submit(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("submit", pflag.ContinueOnError)
	fs.SetOutput(c.out)

	now := time.Now()
	var (
		recordID    = fs.Int64("record-id", 0, "edit this record instead of creating one")
		qrCode      = fs.String("qr", "", "QR code (required)")
		seedID      = fs.String("seed", "", "seed lot id (required)")
		description = fs.String("description", "", "free text")
		germinated  = fs.Bool("germinated", false, "seed germinated")
		vigorous    = fs.Bool("vigorous", false, "seedling is vigorous")
		small       = fs.Bool("small", false, "seedling is small")
		abnormal    = fs.Bool("abnormal", false, "seedling is abnormal")
		usable      = fs.Bool("usable", false, "seedling is usable")
		groupSize   = fs.Int("group-size", 0, "group size")
		dayNumber   = fs.Int("day-number", 0, "trial day")
		date        = fs.String("date", now.Format(entity.DateLayout), "date scanned, YYYY-MM-DD")
		clock       = fs.String("time", now.Format(entity.TimeLayout), "time scanned, HH:MM")
		images      = fs.StringArray("image", nil, "picture file, repeatable")
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	s := submission.Submission{
		Observation: entity.Observation{
			QRCode:      *qrCode,
			SeedID:      *seedID,
			Description: description,
			Germinated:  *germinated,
			Vigorous:    *vigorous,
			Small:       *small,
			Abnormal:    *abnormal,
			Usable:      *usable,
			GroupSize:   groupSize,
			DayNumber:   dayNumber,
			DateScanned: *date,
			TimeScanned: *clock,
		},
		ImagePaths: *images,
	}
	if *recordID > 0 {
		s.RecordID = recordID
	}

	res, err := c.submitter.Submit(ctx, s)
	fmt.Fprintln(c.out, res.Message)
	if err != nil {
		return fmt.Errorf("cli - submit - c.submitter.Submit: %w", err)
	}

	if res.Record != nil {
		fmt.Fprintf(c.out, "record %d, has_pictures=%t\n", res.Record.ID, res.Record.HasPictures)
	}

	return nil
}

func (c *CLI) drain(ctx context.Context) error {
	report, err := c.queue.Drain(ctx)
	if err != nil {
		return fmt.Errorf("cli - drain - c.queue.Drain: %w", err)
	}

	fmt.Fprintf(c.out, "delivered %d, %d left in queue\n", len(report.Delivered), report.Remaining)
	if report.Failure != nil {
		fmt.Fprintf(c.out, "stopped: %v\n", report.Failure)
	}

	return nil
}

func (c *CLI) pending(ctx context.Context) error {
	queue, err := c.queue.Pending(ctx)
	if err != nil {
		return fmt.Errorf("cli - pending - c.queue.Pending: %w", err)
	}

	if len(queue) == 0 {
		fmt.Fprintln(c.out, "queue is empty")

		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tQR CODE\tSEED\tTARGET\tIMAGES")
	for i, s := range queue {
		target := "new"
		if s.RecordID != nil {
			target = strconv.FormatInt(*s.RecordID, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", i+1, s.Observation.QRCode, s.Observation.SeedID, target, len(s.Images))
	}

	return w.Flush()
}

func (c *CLI) list(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.SetOutput(c.out)

	var (
		q          = fs.String("q", "", "substring of qr code, seed id or description")
		germinated = fs.Bool("germinated", false, "only germinated")
		vigorous   = fs.Bool("vigorous", false, "only vigorous")
		small      = fs.Bool("small", false, "only small")
		abnormal   = fs.Bool("abnormal", false, "only abnormal")
		usable     = fs.Bool("usable", false, "only usable")
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	observations, err := c.records.List(ctx, dto.Filter{
		Query: *q,
		Flags: dto.Flags{
			Germinated: onlyTrue(*germinated),
			Vigorous:   onlyTrue(*vigorous),
			Small:      onlyTrue(*small),
			Abnormal:   onlyTrue(*abnormal),
			Usable:     onlyTrue(*usable),
		},
	})
	if err != nil {
		return fmt.Errorf("cli - list - c.records.List: %w", err)
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQR CODE\tSEED\tDATE\tTIME\tG\tV\tS\tA\tU\tPICTURES")
	for _, o := range observations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			o.ID, o.QRCode, o.SeedID, o.DateScanned, o.TimeScanned,
			mark(o.Germinated), mark(o.Vigorous), mark(o.Small), mark(o.Abnormal), mark(o.Usable),
			o.HasPictures)
	}

	return w.Flush()
}

func (c *CLI) get(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	o, err := c.records.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("cli - get - c.records.Get: %w", err)
	}

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")

	return enc.Encode(o)
}

func (c *CLI) delete(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	o, err := c.records.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("cli - delete - c.records.Delete: %w", err)
	}

	fmt.Fprintf(c.out, "deleted record %d (qr_code=%s)\n", o.ID, o.QRCode)

	return nil
}

func (c *CLI) pictures(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("pictures", pflag.ContinueOnError)
	fs.SetOutput(c.out)
	out := fs.String("out", ".", "directory to write the pictures to")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	id, err := idArg(fs.Args())
	if err != nil {
		return err
	}

	pictures, err := c.records.Pictures(ctx, id)
	if err != nil {
		return fmt.Errorf("cli - pictures - c.records.Pictures: %w", err)
	}

	for i, p := range pictures {
		b, err := picturecodec.Decode(p)
		if err != nil {
			return fmt.Errorf("cli - pictures - picturecodec.Decode: %w", err)
		}

		path := filepath.Join(*out, fmt.Sprintf("%d_%d%s", id, i+1, extension(picturecodec.ContentType(b))))
		if err := os.WriteFile(path, b, 0o644); err != nil { //nolint:gosec // pictures are not secret
			return fmt.Errorf("cli - pictures - os.WriteFile: %w", err)
		}
		fmt.Fprintln(c.out, path)
	}

	return nil
}

func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one record id", errUsage)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid record id %q", errUsage, args[0])
	}

	return id, nil
}

func onlyTrue(v bool) *bool {
	if !v {
		return nil
	}

	return &v
}

func mark(v bool) string {
	if v {
		return "x"
	}

	return "-"
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
