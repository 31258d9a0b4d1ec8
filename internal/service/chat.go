package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/quizforge/backend/internal/llm"
	"github.com/quizforge/backend/internal/session"
	"github.com/quizforge/backend/internal/store"
)

const (
	chatTemperature    = 0.4
	generalTemperature = 0.5

	chatSystem    = "You are an expert AI tutor and learning assistant. Provide clear, educational, and contextually relevant responses. Use markdown formatting and be encouraging while maintaining academic rigor."
	generalSystem = "You are a helpful AI assistant. Provide clear, educational responses and ask for more context when needed."

	// Caps applied when folding stored data into the prompt.
	linkContextChars = 500
	replyEchoChars   = 200
	topSkillCount    = 3
)

// ChatService runs the context-aware study assistant. Context selections are
// resolved against the store once, at init/update time, and the denormalized
// snapshot lives in the session until it expires.
type ChatService struct {
	store    *store.SQLiteStore
	sessions *session.Store
	client   llm.Client
	logger   *slog.Logger
}

func NewChatService(s *store.SQLiteStore, sessions *session.Store, client llm.Client, logger *slog.Logger) *ChatService {
	return &ChatService{store: s, sessions: sessions, client: client, logger: logger}
}

// Sessions exposes the underlying session store for handlers that only need
// lookups (history, info, dev endpoints).
func (cs *ChatService) Sessions() *session.Store {
	return cs.sessions
}

// InitContext creates (or replaces) a session with the given selections and
// loads their snapshots from the store. Unknown IDs are skipped.
func (cs *ChatService) InitContext(sessionID, folderID string, linkIDs, testIDs, submissionIDs []string) (*session.Context, error) {
	sess := &session.Context{
		SessionID:     sessionID,
		FolderID:      folderID,
		LinkIDs:       linkIDs,
		TestIDs:       testIDs,
		SubmissionIDs: submissionIDs,
	}

	if folderID != "" {
		f, err := cs.store.GetFolder(folderID)
		if err == nil {
			sess.Data.Folder = &session.FolderInfo{ID: f.ID, Name: f.Name, Description: f.Description}
		} else if err != store.ErrNotFound {
			return nil, err
		}
	}

	if len(linkIDs) > 0 {
		contents, err := cs.store.GetLinkContents(linkIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range linkIDs {
			l, ok := contents[id]
			if !ok {
				continue
			}
			sess.Data.Links = append(sess.Data.Links, session.LinkInfo{
				ID:      l.ID,
				Title:   l.DisplayName(),
				Type:    string(l.Type),
				Preview: truncate(l.Content, linkContextChars),
			})
		}
	}

	for _, id := range testIDs {
		t, err := cs.store.GetTest(id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		sess.Data.Tests = append(sess.Data.Tests, session.TestInfo{
			ID:           t.ID,
			Name:         t.Name,
			Kind:         string(t.Kind),
			NumQuestions: len(t.Questions),
			Tags:         t.Tags,
		})
	}

	for _, id := range submissionIDs {
		swt, err := cs.store.GetSubmissionWithTest(id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		info := session.SubmissionInfo{
			ID:           swt.Submission.ID,
			TestName:     swt.TestName,
			AverageScore: scoreAverage(swt.Submission.Scores),
			SubmittedAt:  swt.Submission.SubmittedAt,
		}
		if swt.Submission.Metrics != nil {
			info.TopSkills = topSkills(swt.Submission.Metrics.SkillAverages, topSkillCount)
		}
		sess.Data.Submissions = append(sess.Data.Submissions, info)
	}

	cs.sessions.Put(sess)
	return sess, nil
}

// UpdateContext replaces the selections of an existing session, keeping its
// chat history. A missing session is created fresh.
func (cs *ChatService) UpdateContext(sessionID, folderID string, linkIDs, testIDs, submissionIDs []string) (*session.Context, error) {
	old, existed := cs.sessions.Get(sessionID)

	sess, err := cs.InitContext(sessionID, folderID, linkIDs, testIDs, submissionIDs)
	if err != nil {
		return nil, err
	}
	if existed {
		sess.History = old.History
		cs.sessions.Put(sess)
	}
	return sess, nil
}

// ContextType classifies what kind of assistance a session is set up for.
func ContextType(sess *session.Context) string {
	switch {
	case sess == nil:
		return "general"
	case len(sess.Data.Links) > 0:
		return "content_analysis"
	case len(sess.Data.Tests) > 0:
		return "test_assistance"
	case len(sess.Data.Submissions) > 0:
		return "performance_analysis"
	}
	return "general"
}

// Message answers a user message within the session's context and appends
// the exchange to the session history. The reply is rendered HTML.
func (cs *ChatService) Message(ctx context.Context, sessionID, userMessage string) (reply, contextType string, err error) {
	sess, ok := cs.sessions.Get(sessionID)
	if !ok {
		raw, err := cs.client.Complete(ctx, llm.Request{
			System:      generalSystem,
			Prompt:      generalPrompt(userMessage),
			Temperature: generalTemperature,
		})
		if err != nil {
			return "", "", err
		}
		return renderMarkdown(raw), "general", nil
	}

	contextType = ContextType(sess)

	raw, err := cs.client.Complete(ctx, llm.Request{
		System:      chatSystem,
		Prompt:      contextPrompt(sess, contextType, userMessage),
		Temperature: chatTemperature,
	})
	if err != nil {
		cs.logger.Error("chat completion failed", "session_id", sessionID, "error", err)
		return "", "", err
	}

	sess.AddExchange(userMessage, raw)
	cs.sessions.Put(sess)

	return renderMarkdown(raw), contextType, nil
}

func contextPrompt(sess *session.Context, contextType, userMessage string) string {
	var info []string

	if f := sess.Data.Folder; f != nil {
		info = append(info, fmt.Sprintf("**Current Folder**: %s", f.Name))
		if f.Description != "" {
			info = append(info, fmt.Sprintf("**Description**: %s", f.Description))
		}
	}

	if len(sess.Data.Links) > 0 {
		info = append(info, "\n**Selected Content Sources:**")
		for _, l := range sess.Data.Links {
			info = append(info, fmt.Sprintf("- **%s**: %s", l.Title, l.Preview))
		}
	}

	if len(sess.Data.Tests) > 0 {
		info = append(info, "\n**Selected Tests:**")
		for _, t := range sess.Data.Tests {
			info = append(info, fmt.Sprintf("- **%s** (%s, %d questions)", t.Name, t.Kind, t.NumQuestions))
			if len(t.Tags) > 0 {
				info = append(info, fmt.Sprintf("  Tags: %s", strings.Join(t.Tags, ", ")))
			}
		}
	}

	if len(sess.Data.Submissions) > 0 {
		info = append(info, "\n**Selected Test Results:**")
		for _, s := range sess.Data.Submissions {
			info = append(info, fmt.Sprintf("- **%s** (Submitted: %s, Average Score: %.1f%%)",
				s.TestName, s.SubmittedAt.Format("2006-01-02"), s.AverageScore))
			if len(s.TopSkills) > 0 {
				var parts []string
				for _, k := range sortedKeys(s.TopSkills) {
					parts = append(parts, fmt.Sprintf("%s: %.1f%%", k, s.TopSkills[k]))
				}
				info = append(info, fmt.Sprintf("  Key skills: %s", strings.Join(parts, ", ")))
			}
		}
	}

	contextString := "No specific content selected - providing general assistance."
	if len(info) > 0 {
		contextString = strings.Join(info, "\n")
	}

	history := ""
	if recent := sess.RecentHistory(3); len(recent) > 0 {
		var lines []string
		for _, h := range recent {
			lines = append(lines, fmt.Sprintf("User: %s\nAI: %s", h.UserMessage, truncate(h.AIResponse, replyEchoChars)))
		}
		history = "\n**Recent Conversation:**\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are an intelligent AI assistant helping a student with their learning materials and test performance.

**Context Type**: %s

**Available Context:**
%s

%s

**Student's Question**: %s

**Instructions**:
Based on the available context, provide a helpful response that:

1. **Directly addresses** the student's question using the provided context when relevant
2. **Analyzes content** if they're asking about their study materials
3. **Explains concepts** clearly if they need help understanding topics
4. **Provides study guidance** based on their test results and performance data
5. **Gives personalized recommendations** based on their strengths and weaknesses
6. **Offers learning strategies** tailored to their content and performance
7. **Encourages active learning** and critical thinking

If no specific context is available, provide general educational assistance while being clear that you're working with limited information.

Keep responses helpful, educational, and appropriately detailed. Use markdown formatting for better readability.`,
		titleCase(contextType), contextString, history, userMessage)
}

func generalPrompt(userMessage string) string {
	return fmt.Sprintf(`You are a helpful AI assistant. A student is asking: %q

Provide a helpful, educational response. If this is about academic topics, provide clear explanations and learning guidance.
If you need more specific information or context to give a better answer, let them know what additional details would help.

Use markdown formatting for better readability.`, userMessage)
}

// titleCase turns "content_analysis" into "Content Analysis".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func scoreAverage(scores map[string]int) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s
	}
	return float64(total) / float64(len(scores))
}

func topSkills(averages map[string]float64, n int) map[string]float64 {
	keys := make([]string, 0, len(averages))
	for k := range averages {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if averages[keys[i]] != averages[keys[j]] {
			return averages[keys[i]] > averages[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}

	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		out[k] = averages[k]
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
