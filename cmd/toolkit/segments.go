package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

func cmdSegments(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: toolkit segments <list|get|add|update|delete|add-accounts|remove-account>")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return a.segmentsList(ctx, rest)
	case "get":
		return a.segmentsGet(ctx, rest)
	case "add":
		return a.segmentsAdd(ctx, rest)
	case "update":
		return a.segmentsUpdate(ctx, rest)
	case "delete":
		return a.segmentsDelete(ctx, rest)
	case "add-accounts":
		return a.segmentsAddAccounts(ctx, rest)
	case "remove-account":
		return a.segmentsRemoveAccount(ctx, rest)
	default:
		return fmt.Errorf("unknown segments command: %s", sub)
	}
}

func (a *app) segmentsList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segments list", flag.ExitOnError)
	start := fs.Int("start", 0, "Zero-based index of the first segment")
	pageSize := fs.Int("page-size", 0, "Segments per page (platform default when 0)")
	sortBy := fs.String("sort", "", "Sort expression, e.g. \"name asc\"")
	filter := fs.String("filter", "", "Platform filter expression")
	fs.Parse(args)

	segments, err := a.segments.ListSegments(ctx, mozu.ListOptions{
		StartIndex: *start,
		PageSize:   *pageSize,
		SortBy:     *sortBy,
		Filter:     *filter,
	})
	if err != nil {
		return err
	}
	return printJSON(segments)
}

func (a *app) segmentsGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segments get", flag.ExitOnError)
	fs.Parse(args)

	id, err := singleID(fs, "segment-id")
	if err != nil {
		return err
	}
	segment, err := a.segments.GetSegment(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(segment)
}

func (a *app) segmentsAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segments add", flag.ExitOnError)
	code := fs.String("code", "", "Segment code (required)")
	name := fs.String("name", "", "Segment name (required)")
	description := fs.String("description", "", "Segment description")
	fs.Parse(args)

	segment, err := a.segments.AddSegment(ctx, &mozu.CustomerSegment{
		Code:        *code,
		Name:        *name,
		Description: *description,
	})
	if err != nil {
		return err
	}
	return printJSON(segment)
}

// segmentsUpdate reads the stored segment, applies the given flags, and
// sends the whole entity back.
func (a *app) segmentsUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segments update", flag.ExitOnError)
	code := fs.String("code", "", "New segment code")
	name := fs.String("name", "", "New segment name")
	description := fs.String("description", "", "New segment description")
	fs.Parse(args)

	id, err := singleID(fs, "segment-id")
	if err != nil {
		return err
	}
	segment, err := a.segments.GetSegment(ctx, id)
	if err != nil {
		return err
	}

	seen := setFlags(fs)
	if seen["code"] {
		segment.Code = *code
	}
	if seen["name"] {
		segment.Name = *name
	}
	if seen["description"] {
		segment.Description = *description
	}

	updated, err := a.segments.UpdateSegment(ctx, segment, id)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func (a *app) segmentsDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segments delete", flag.ExitOnError)
	fs.Parse(args)

	id, err := singleID(fs, "segment-id")
	if err != nil {
		return err
	}
	if err := a.segments.DeleteSegment(ctx, id); err != nil {
		return err
	}
	return printJSON(map[string]int{"deleted": id})
}

func (a *app) segmentsAddAccounts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segments add-accounts", flag.ExitOnError)
	segmentID := fs.Int("segment", 0, "Segment id (required)")
	fs.Parse(args)

	accountIDs, err := ids("account-id", fs.Args())
	if err != nil {
		return err
	}
	if err := a.segments.AddSegmentAccounts(ctx, accountIDs, *segmentID); err != nil {
		return err
	}
	return printJSON(map[string]interface{}{"segmentId": *segmentID, "added": accountIDs})
}

func (a *app) segmentsRemoveAccount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segments remove-account", flag.ExitOnError)
	segmentID := fs.Int("segment", 0, "Segment id (required)")
	fs.Parse(args)

	accountID, err := singleID(fs, "account-id")
	if err != nil {
		return err
	}
	if err := a.segments.RemoveSegmentAccount(ctx, *segmentID, accountID); err != nil {
		return err
	}
	return printJSON(map[string]int{"segmentId": *segmentID, "removed": accountID})
}
