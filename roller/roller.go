package roller

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"mediabot/database"
	"mediabot/models"
	"mediabot/utils"

	"github.com/bwmarrin/discordgo"
)

// Rejection reasons for a roll request. The command handler turns these
// into user-facing replies.
var (
	ErrNotConfigured  = errors.New("rolling is not configured in this channel")
	ErrAlreadyRolling = errors.New("a roll sequence is already in progress")
	ErrTooLong        = errors.New("roll sequence exceeds the maximum duration")
)

// discordCDNHosts are URL substrings that mark media we re-upload as a file
// instead of posting as a plain link.
var discordCDNHosts = []string{"cdn.discordapp.com", "media.discordapp.net"}

// Engine runs roll sequences. Each active sequence is one timer-driven task
// keyed by config id; the database's CurrentlyRolling marker is the guard
// against overlapping sequences, the task map only tracks timers so Stop can
// clear them.
type Engine struct {
	session *discordgo.Session
	store   *database.Store

	mu    sync.Mutex
	tasks map[int64]*time.Timer
}

// New creates a roll engine on top of the given session and store.
func New(session *discordgo.Session, store *database.Store) *Engine {
	return &Engine{
		session: session,
		store:   store,
		tasks:   make(map[int64]*time.Timer),
	}
}

// sequence is the in-flight state of one roll command.
type sequence struct {
	cfg      models.ChannelConfig
	command  *discordgo.Message // the invoking roll command
	guildID  string
	actorID  int64 // internal user id of whoever started the roll
	count    int
	interval int
	progress int // successful posts so far
}

// replyReference returns the invoking command to reply to when a draw comes
// up empty. Only the first step replies; once media has been posted the
// notice stands on its own.
func (seq *sequence) replyReference() *discordgo.MessageReference {
	if seq.command == nil || seq.progress > 0 {
		return nil
	}
	return seq.command.Reference()
}

// StartRoll validates a roll request and, if accepted, begins the sequence.
// command is the invoking message; rolling is only accepted in the config's
// roll channel.
func (e *Engine) StartRoll(cfg *models.ChannelConfig, command *discordgo.Message, actorID int64, count, interval int) (int, int, error) {
	if cfg == nil || !cfg.Bound() || cfg.RollChannelID.String != command.ChannelID {
		return 0, 0, ErrNotConfigured
	}

	count, interval = NormalizeSequence(count, interval)
	if count*interval > MaxSequenceSeconds {
		return count, interval, ErrTooLong
	}

	// Atomic Idle -> Rolling transition; loses the race cleanly when a
	// sequence is already in flight.
	until := time.Now().Unix() + int64(interval*(count-1))
	ok, err := e.store.TryBeginRoll(cfg.ChannelConfigID, until)
	if err != nil {
		return count, interval, err
	}
	if !ok {
		return count, interval, ErrAlreadyRolling
	}

	log.Printf("Rolling %d medias with an interval of %d seconds in channel config %d",
		count, interval, cfg.ChannelConfigID)

	seq := &sequence{
		cfg:      *cfg,
		command:  command,
		guildID:  command.GuildID,
		actorID:  actorID,
		count:    count,
		interval: interval,
	}
	go e.step(seq)
	return count, interval, nil
}

// Stop clears all pending timers. In-flight sequences are abandoned; their
// configs idle out once CurrentlyRolling expires.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, timer := range e.tasks {
		timer.Stop()
		delete(e.tasks, id)
	}
}

// step performs one weighted draw and send, then either schedules the next
// step or finishes the sequence.
func (e *Engine) step(seq *sequence) {
	if e.selectAndSend(seq) && seq.progress < seq.count {
		e.schedule(seq)
		return
	}
	e.finish(seq.cfg.ChannelConfigID)
}

func (e *Engine) schedule(seq *sequence) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks[seq.cfg.ChannelConfigID] = time.AfterFunc(
		time.Duration(seq.interval)*time.Second,
		func() { e.step(seq) },
	)
}

// finish returns the config to the idle state and drops the task handle.
func (e *Engine) finish(configID int64) {
	e.mu.Lock()
	delete(e.tasks, configID)
	e.mu.Unlock()

	if err := e.store.SetIdle(configID); err != nil {
		log.Printf("Error setting config %d idle: %v", configID, err)
	}
	log.Println("Finished roll")
}

// selectAndSend draws one media item and posts it. It returns false when
// the sequence should terminate early (empty pool or storage failure).
func (e *Engine) selectAndSend(seq *sequence) bool {
	cfg := &seq.cfg
	rollChannel := cfg.RollChannelID.String

	eligible, err := e.store.CountEligibleMedia(cfg.ChannelConfigID, cfg.MinimumPoints)
	if err != nil {
		log.Printf("Error counting eligible media for config %d: %v", cfg.ChannelConfigID, err)
		return false
	}

	bufferCount := BufferCount(eligible, cfg.BufferPercentage)
	candidates, err := e.store.EligibleCandidates(cfg.ChannelConfigID, cfg.MinimumPoints, bufferCount)
	if err != nil {
		log.Printf("Error querying candidates for config %d: %v", cfg.ChannelConfigID, err)
		return false
	}

	pool := BuildPool(candidates, cfg.MinimumPoints)
	if len(pool) == 0 {
		// Covers both no eligible media and every candidate sitting at
		// the score floor.
		notice := "No media to roll! Please submit some juicy content first"
		if ref := seq.replyReference(); ref != nil {
			e.session.ChannelMessageSendReply(rollChannel, notice, ref)
		} else {
			e.session.ChannelMessageSend(rollChannel, notice)
		}
		return false
	}
	media := candidates[pool[rand.Intn(len(pool))]]

	sent, err := e.post(rollChannel, media.URL)
	if err != nil {
		log.Printf("Error delivering media %d: %v", media.MediaID, err)
		if err := e.store.IncrementErrorCount(media.MediaID); err != nil {
			log.Printf("Error tracking delivery failure for media %d: %v", media.MediaID, err)
		} else if m, err := e.store.GetMedia(media.MediaID); err == nil && m != nil && m.Quarantined() {
			log.Printf("Media %d quarantined after %d failed deliveries", m.MediaID, m.ErrorCount)
			utils.Warn("roller", "quarantine",
				fmt.Sprintf("media %d dropped out of the pool after %d failed deliveries", m.MediaID, m.ErrorCount))
		}
		// Failed attempts do not count toward the sequence total.
		return true
	}

	if err := e.store.InsertMediaRoll(media.MediaID, sent.ID, seq.actorID); err != nil {
		log.Printf("Error saving media roll for media %d: %v", media.MediaID, err)
	}
	if err := e.store.ResetErrorCount(media.MediaID); err != nil {
		log.Printf("Error resetting error count for media %d: %v", media.MediaID, err)
	}
	e.addVoteReactions(seq.guildID, rollChannel, sent.ID, cfg)

	seq.progress++
	return true
}

// post delivers one media URL to the roll channel. Discord CDN links are
// re-uploaded as attachments so they render natively; everything else goes
// out as a plain link message.
func (e *Engine) post(channelID, url string) (*discordgo.Message, error) {
	if !isDiscordCDN(url) {
		return e.session.ChannelMessageSend(channelID, url)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching media", resp.Status)
	}

	name := path.Base(resp.Request.URL.Path)
	return e.session.ChannelFileSend(channelID, name, resp.Body)
}

func isDiscordCDN(url string) bool {
	for _, host := range discordCDNHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// addVoteReactions attaches the configured vote emoji to a rolled message
// so voting is one click away.
func (e *Engine) addVoteReactions(guildID, channelID, messageID string, cfg *models.ChannelConfig) {
	for _, configured := range []string{cfg.UpvoteEmoji, cfg.DownvoteEmoji} {
		apiName := utils.ReactionAPIName(e.session, guildID, configured)
		if err := e.session.MessageReactionAdd(channelID, messageID, apiName); err != nil {
			log.Printf("Error adding reaction %q to message %s: %v", apiName, messageID, err)
		}
	}
}
