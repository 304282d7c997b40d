// Package gmail wraps the Gmail API as the triage pipeline's mailbox
// provider: unread fetch and polling, plus the draft/archive/trash calls
// the executor issues. OAuth bootstrap lives here too; the core never
// performs auth itself.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/psehgal/inboxzero/config"
	"github.com/psehgal/inboxzero/triage"
)

const (
	tokenFile       = "token.json"
	credentialsFile = "credentials.json"
	user            = "me"

	// Unread inbox messages only; drafts never enter triage.
	unreadQuery = "in:inbox is:unread -in:draft"
)

type Client struct {
	srv           *gmail.Service
	filterManager *config.Manager
	logger        *zap.Logger
}

func NewClient(ctx context.Context, cfgManager *config.Manager, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	// Modify scope: triage mutates labels, trashes messages, and creates
	// drafts in-account.
	oauthConfig, err := google.ConfigFromJSON(b, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	httpClient, err := getOAuthClient(ctx, oauthConfig)
	if err != nil {
		return nil, err
	}
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv, filterManager: cfgManager, logger: logger}, nil
}

func getOAuthClient(ctx context.Context, cfg *oauth2.Config) (*http.Client, error) {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return cfg.Client(ctx, tok), nil
}

func getTokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)
	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	tok, err := cfg.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// FetchUnread lists up to max unread inbox messages and returns them as raw
// triage input, newest first. Messages matching the ignore filters are
// dropped before they ever reach the pipeline.
func (c *Client) FetchUnread(ctx context.Context, max int64) ([]triage.RawMessage, error) {
	list, err := c.srv.Users.Messages.List(user).
		MaxResults(max).
		Q(unreadQuery).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list unread: %v", triage.ErrProviderCall, err)
	}

	var out []triage.RawMessage
	for _, m := range list.Messages {
		full, err := c.srv.Users.Messages.Get(user, m.Id).Format("full").Context(ctx).Do()
		if err != nil {
			c.logger.Warn("unable to retrieve full message", zap.String("id", m.Id), zap.Error(err))
			continue
		}
		raw := ToRawMessage(full)
		if c.shouldIgnore(raw) {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

// CreateDraft creates a reply draft threaded to the original message.
func (c *Client) CreateDraft(ctx context.Context, threadID, to, subject, body string) (string, error) {
	var rfc822 strings.Builder
	fmt.Fprintf(&rfc822, "To: %s\r\n", to)
	fmt.Fprintf(&rfc822, "Subject: %s\r\n", subject)
	rfc822.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	rfc822.WriteString("\r\n")
	rfc822.WriteString(body)

	draft := &gmail.Draft{
		Message: &gmail.Message{
			Raw:      base64.URLEncoding.EncodeToString([]byte(rfc822.String())),
			ThreadId: threadID,
		},
	}
	created, err := c.srv.Users.Drafts.Create(user, draft).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: create draft: %v", triage.ErrProviderCall, err)
	}
	return created.Id, nil
}

// Archive removes the message from the inbox view. The message stays
// retrievable under All Mail; repeating the call is a provider-level no-op.
func (c *Client) Archive(ctx context.Context, messageID string) error {
	_, err := c.srv.Users.Messages.Modify(user, messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: archive %s: %v", triage.ErrProviderCall, messageID, err)
	}
	return nil
}

// Trash moves the message to trash. Recoverable, not a permanent delete.
func (c *Client) Trash(ctx context.Context, messageID string) error {
	_, err := c.srv.Users.Messages.Trash(user, messageID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: trash %s: %v", triage.ErrProviderCall, messageID, err)
	}
	return nil
}

func (c *Client) shouldIgnore(raw triage.RawMessage) bool {
	filters := c.filterManager.GetFilters()
	from := strings.ToLower(raw.Headers["From"])
	for _, sender := range filters.IgnoreSenders {
		if strings.Contains(from, strings.ToLower(sender)) {
			c.logger.Debug("filtered by sender rule",
				zap.String("from", raw.Headers["From"]), zap.String("rule", sender))
			return true
		}
	}
	subject := strings.ToLower(raw.Headers["Subject"])
	for _, keyword := range filters.IgnoreKeywordsInSubject {
		if strings.Contains(subject, strings.ToLower(keyword)) {
			c.logger.Debug("filtered by subject rule",
				zap.String("subject", raw.Headers["Subject"]), zap.String("rule", keyword))
			return true
		}
	}
	return false
}

// StartMonitoring polls for unread inbox messages and streams ones not yet
// seen this session into msgChan. It owns no triage state; the display
// layer decides what to do with each message. Blocks until ctx is
// cancelled, then closes msgChan.
func (c *Client) StartMonitoring(ctx context.Context, msgChan chan<- triage.RawMessage, initialDelay, pollInterval time.Duration, fetchCount int64) {
	defer close(msgChan)

	select {
	case <-time.After(initialDelay):
	case <-ctx.Done():
		return
	}

	seen := make(map[string]bool)
	deliver := func() {
		raws, err := c.FetchUnread(ctx, fetchCount)
		if err != nil {
			c.logger.Warn("unread poll failed", zap.Error(err))
			return
		}
		// Oldest first so the list fills in arrival order.
		for i := len(raws) - 1; i >= 0; i-- {
			raw := raws[i]
			if seen[raw.ID] {
				continue
			}
			seen[raw.ID] = true
			select {
			case msgChan <- raw:
				c.logger.Info("unread message queued",
					zap.String("id", raw.ID), zap.String("subject", raw.Headers["Subject"]))
			case <-ctx.Done():
				return
			}
		}
	}

	c.logger.Info("performing initial unread fetch", zap.Int64("count", fetchCount))
	deliver()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("gmail monitor stopping")
			return
		case <-ticker.C:
			deliver()
		}
	}
}
