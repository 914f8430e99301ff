package command

import (
	"fmt"
	"strings"

	"mediabot/models"
)

// StatsCommand reports server-wide media statistics.
type StatsCommand struct{}

func (c *StatsCommand) Name() string { return "stats" }

func (c *StatsCommand) Execute(ctx *Context) error {
	stats, err := ctx.Store.ServerStats(ctx.ServerID)
	if err != nil {
		ctx.Reply("Something went wrong computing the stats.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Media stats**\n")
	fmt.Fprintf(&b, "Total media submitted: %d\n", stats.TotalMedia)
	if len(stats.TopScoreNames) > 0 {
		fmt.Fprintf(&b, "Top score: %d by %s\n", stats.TopScore, strings.Join(stats.TopScoreNames, ", "))
	}
	if len(stats.TopUpvoters) > 0 {
		fmt.Fprintf(&b, "Most upvotes given: %s\n", formatLeaders(stats.TopUpvoters))
	}
	if len(stats.TopDownvoters) > 0 {
		fmt.Fprintf(&b, "Most downvotes given: %s\n", formatLeaders(stats.TopDownvoters))
	}
	fmt.Fprintf(&b, "Total rolls: %d\n", stats.TotalRolls)
	if len(stats.TopRollers) > 0 {
		fmt.Fprintf(&b, "Most rolls: %s", formatLeaders(stats.TopRollers))
	}

	ctx.Reply(b.String())
	return nil
}

func formatLeaders(leaders []models.NameCount) string {
	names := make([]string, len(leaders))
	for i, l := range leaders {
		names[i] = l.DisplayName
	}
	return fmt.Sprintf("%s (%d)", strings.Join(names, ", "), leaders[0].Count)
}

// ScoreCommand reports one user's media statistics. With no argument it
// reports the invoking user; otherwise the argument is a name search that
// must match exactly one user.
type ScoreCommand struct{}

func (c *ScoreCommand) Name() string { return "score" }

func (c *ScoreCommand) Execute(ctx *Context) error {
	user := models.User{
		UserID:      ctx.UserID,
		DisplayName: ctx.Message.Author.Username,
	}

	if len(ctx.Args) > 0 {
		query := strings.Join(ctx.Args, " ")
		matches, err := ctx.Store.FindUsersByName(ctx.ServerID, query)
		if err != nil {
			ctx.Reply("Something went wrong searching for that user.")
			return err
		}
		switch len(matches) {
		case 0:
			ctx.Reply(fmt.Sprintf("No user matching %q found.", query))
			return nil
		case 1:
			user = matches[0]
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.DisplayName
			}
			ctx.Reply(fmt.Sprintf("%q matches more than one user (%s), please be more specific.",
				query, strings.Join(names, ", ")))
			return nil
		}
	}

	score, err := ctx.Store.UserScore(user)
	if err != nil {
		ctx.Reply("Something went wrong computing the score.")
		return err
	}

	ctx.Reply(fmt.Sprintf(
		"**%s**\nMedia submitted: %d\nTotal score: %d\nUpvotes given: %d\nDownvotes given: %d\nRolls started: %d",
		score.DisplayName, score.MediaCount, score.TotalScore,
		score.UpvotesGiven, score.DownvotesGiven, score.RollsStarted,
	))
	return nil
}
