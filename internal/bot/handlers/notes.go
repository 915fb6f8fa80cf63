package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/models"
)

func (h *Handlers) handleNotes(ctx context.Context, msg *tgbotapi.Message) {
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	notes, err := h.backend.ListNotes(ctx, sess.AccessToken)
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to fetch notes: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load your notes, please try again.")
		return
	}
	if len(notes) == 0 {
		h.sendMessage(msg.Chat.ID, "No notes yet. Send me a PDF to create one.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Your notes**\n\n")
	for _, n := range notes {
		sb.WriteString(noteLine(&n) + "\n")
	}
	sb.WriteString("\nOpen one with /note <id> or search with /searchnotes <query>.")
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

func noteLine(n *models.Note) string {
	line := fmt.Sprintf("📄 `%s` %s", n.ID, n.Title)
	if n.Subject != "" {
		line += " — " + n.Subject
	}
	return line
}

func (h *Handlers) handleNote(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /note <id>")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}

	note, err := h.backend.GetNote(ctx, sess.AccessToken, models.ID(id))
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		if h.notFound(msg.Chat.ID, err, "Note") {
			return
		}
		log.Printf("Failed to fetch note: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load the note, please try again.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**" + note.Title + "**\n")
	if note.Subject != "" {
		sb.WriteString(note.Subject + "\n")
	}
	sb.WriteString("\n")
	if note.Summary != "" {
		sb.WriteString(note.Summary)
	} else {
		sb.WriteString("No summary available for this note.")
	}
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleSearchNotes(ctx context.Context, msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /searchnotes <keyword, topic, or content>")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}

	results, err := h.backend.SearchNotes(ctx, sess.AccessToken, query)
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to search notes: %v", err)
		h.sendMessage(msg.Chat.ID, "Search failed, please try again.")
		return
	}
	if len(results) == 0 {
		h.sendMessage(msg.Chat.ID, "No notes match \""+query+"\". Try refining your query.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%d result(s) for \"%s\"**\n\n", len(results), query))
	for _, n := range results {
		sb.WriteString(noteLine(&n) + "\n")
		if n.Summary != "" {
			sb.WriteString("   " + truncate(n.Summary, 120) + "\n")
		}
	}
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleDelNote(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /delnote <id>")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	if err := h.backend.DeleteNote(ctx, sess.AccessToken, models.ID(id)); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		if h.notFound(msg.Chat.ID, err, "Note") {
			return
		}
		log.Printf("Failed to delete note: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not delete the note, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Note deleted.")
}

// HandleDocument turns an uploaded PDF into a note. The backend extracts
// the content and summary.
func (h *Handlers) HandleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	if doc.MimeType != "application/pdf" && !strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf") {
		h.sendMessage(msg.Chat.ID, "I can only make notes out of PDF files.")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	if !h.tryAcquire(msg.Chat.ID) {
		h.sendMessage(msg.Chat.ID, "Still working on your previous request, hold on.")
		return
	}
	defer h.release(msg.Chat.ID)

	url, err := h.tg.GetFileDirectURL(doc.FileID)
	if err != nil {
		log.Printf("Failed to resolve document URL: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not read the file, please try again.")
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("Failed to build download request: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not read the file, please try again.")
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("Failed to download document: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not read the file, please try again.")
		return
	}
	defer resp.Body.Close()

	title := strings.TrimSpace(msg.Caption)
	if err := h.backend.CreateNotePDF(ctx, sess.AccessToken, doc.FileName, title, "", resp.Body); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to upload note PDF: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not create a note from the PDF, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Note created from your PDF. See it with /notes.")
}
