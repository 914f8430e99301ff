package command

import (
	"strconv"

	"mediabot/models"

	"github.com/enescakir/emoji"
)

// DefaultSettings returns a ChannelConfig with every tunable field at its
// default.
func DefaultSettings() models.ChannelConfig {
	return models.ChannelConfig{
		Prefix:           models.DefaultPrefix,
		BufferPercentage: models.DefaultBufferPercentage,
		MaximumPoints:    models.DefaultMaximumPoints,
		MinimumPoints:    models.DefaultMinimumPoints,
		UpvoteEmoji:      emoji.ThumbsUp.String(),
		DownvoteEmoji:    emoji.ThumbsDown.String(),
		RollCommand:      models.DefaultRollCommand,
	}
}

// ParseSettings applies flag overrides from args onto cfg. Every offending
// token is collected and returned rather than failing on the first one; cfg
// must only be persisted when the returned slice is empty.
//
// Flags: -p/--prefix, -b/--buffer, -max/--maximum-points,
// -min/--minimum-points (must be negative), -u/--upvote-emoji,
// -d/--downvote-emoji, -r/--roll-command.
func ParseSettings(cfg *models.ChannelConfig, args []string) []string {
	var bad []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		var value string
		hasValue := i+1 < len(args)
		if hasValue {
			value = args[i+1]
		}

		switch arg {
		case "-p", "--prefix":
			if !hasValue {
				bad = append(bad, arg)
				continue
			}
			cfg.Prefix = value
			i++

		case "-b", "--buffer":
			if !hasValue {
				bad = append(bad, arg)
				continue
			}
			buffer, err := strconv.ParseFloat(value, 64)
			if err != nil {
				bad = append(bad, arg, value)
			} else {
				cfg.BufferPercentage = buffer
			}
			i++

		case "-max", "--maximum-points":
			if !hasValue {
				bad = append(bad, arg)
				continue
			}
			max, err := strconv.Atoi(value)
			if err != nil {
				bad = append(bad, arg, value)
			} else {
				cfg.MaximumPoints = max
			}
			i++

		case "-min", "--minimum-points":
			if !hasValue {
				bad = append(bad, arg)
				continue
			}
			min, err := strconv.Atoi(value)
			if err != nil || min >= 0 {
				// The floor has to sit below zero or never-voted media
				// could not be drawn.
				bad = append(bad, arg, value)
			} else {
				cfg.MinimumPoints = min
			}
			i++

		case "-u", "--upvote-emoji":
			if !hasValue {
				bad = append(bad, arg)
				continue
			}
			cfg.UpvoteEmoji = value
			i++

		case "-d", "--downvote-emoji":
			if !hasValue {
				bad = append(bad, arg)
				continue
			}
			cfg.DownvoteEmoji = value
			i++

		case "-r", "--roll-command":
			if !hasValue {
				bad = append(bad, arg)
				continue
			}
			cfg.RollCommand = value
			i++
		}
	}

	return bad
}
