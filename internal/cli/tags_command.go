package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"

	"time-tagger/internal/api"
	"time-tagger/internal/config"
	"time-tagger/internal/errors"
)

// TagsCommand handles the tags and priority commands
type TagsCommand struct {
	businessAPI  api.BusinessAPI
	out          io.Writer
	loc          *time.Location
	timeFormat   string
	errorHandler *ErrorHandler
}

// NewTagsCommand creates a new tags command handler
func NewTagsCommand(app *App) *TagsCommand {
	cfg := app.config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &TagsCommand{
		businessAPI:  app.businessAPI,
		out:          app.out,
		loc:          cfg.Location(),
		timeFormat:   cfg.Time.DisplayFormat,
		errorHandler: NewErrorHandler(app.logger),
	}
}

// List prints every tag in use with when it was last used and its priority
func (c *TagsCommand) List(ctx context.Context, rebuild bool) error {
	tags, err := c.businessAPI.ListTags(ctx, rebuild)
	if err != nil {
		return c.errorHandler.Handle("list tags", err)
	}
	if len(tags) == 0 {
		fmt.Fprintln(c.out, "No tags found.")
		return nil
	}

	infos, err := c.businessAPI.ListTagPriorities(ctx)
	if err != nil {
		return c.errorHandler.Handle("list tags", err)
	}
	secondary := make(map[string]bool, len(infos))
	for _, info := range infos {
		secondary[info.Tag] = info.IsSecondary()
	}

	tagWidth := 0
	for _, t := range tags {
		tagWidth = max(tagWidth, runewidth.StringWidth(t.Tag))
	}
	for _, t := range tags {
		lastUsed := time.Unix(t.LastUsed, 0).In(c.loc).Format(c.timeFormat)
		line := runewidth.FillRight(t.Tag, tagWidth) + gutter + lastUsed
		if secondary[t.Tag] {
			line += gutter + "secondary"
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}

// SetPriority parses args as <tag> <1|2> and stores the priority
func (c *TagsCommand) SetPriority(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("arguments", args, "usage: tg priority <tag> <1|2>")
	}
	priority, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.NewInvalidInputError("priority", args[1], "must be 1 (primary) or 2 (secondary)")
	}

	info, err := c.businessAPI.SetTagPriority(ctx, args[0], priority)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	label := "primary"
	if info.IsSecondary() {
		label = "secondary"
	}
	fmt.Fprintf(c.out, "%s is now %s\n", info.Tag, label)
	return nil
}
