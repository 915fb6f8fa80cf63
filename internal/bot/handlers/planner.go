package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/models"
)

func (h *Handlers) handlePlans(ctx context.Context, msg *tgbotapi.Message) {
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	plans, err := h.backend.ListPlans(ctx, sess.AccessToken)
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to fetch plans: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load your study plans, please try again.")
		return
	}
	if len(plans) == 0 {
		h.sendMessage(msg.Chat.ID, "No study plans yet. Create one with /newplan <description>.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Your study plans**\n\n")
	for _, p := range plans {
		sb.WriteString(fmt.Sprintf("📚 `%s` %s\n", p.ID, p.Title))
		if len(p.Subjects) > 0 {
			sb.WriteString("   " + strings.Join(p.Subjects, ", ") + "\n")
		}
		sb.WriteString("   " + progressBar(p.Progress))
		if !p.StartDate.IsZero() && !p.EndDate.IsZero() {
			sb.WriteString(fmt.Sprintf("  %s to %s",
				p.StartDate.Format("Jan 2"), p.EndDate.Format("Jan 2")))
		}
		sb.WriteString("\n\n")
	}
	sb.WriteString("Open one with /plan <id>.")
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

func (h *Handlers) handlePlan(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /plan <id>")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}

	plan, err := h.backend.GetPlan(ctx, sess.AccessToken, models.ID(id))
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		if h.notFound(msg.Chat.ID, err, "Study plan") {
			return
		}
		log.Printf("Failed to fetch plan: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load the plan, please try again.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**" + plan.Title + "**\n")
	if len(plan.Subjects) > 0 {
		sb.WriteString(strings.Join(plan.Subjects, ", ") + "\n")
	}
	sb.WriteString(progressBar(plan.Progress) + "\n")
	if !plan.StartDate.IsZero() && !plan.EndDate.IsZero() {
		sb.WriteString(plan.StartDate.Format("Jan 2") + " to " + plan.EndDate.Format("Jan 2, 2006") + "\n")
	}
	if len(plan.Milestones) > 0 {
		sb.WriteString("\n**Milestones**\n")
		for _, m := range plan.Milestones {
			mark := "○"
			if m.Completed {
				mark = "✅"
			}
			sb.WriteString(fmt.Sprintf("%s %s", mark, m.Name))
			if !m.Start.IsZero() && !m.End.IsZero() {
				sb.WriteString(fmt.Sprintf(" (%s – %s)",
					m.Start.Format("Jan 2"), m.End.Format("Jan 2")))
			}
			sb.WriteString("\n")
		}
	}
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleNewPlan(ctx context.Context, msg *tgbotapi.Message) {
	description := strings.TrimSpace(msg.CommandArguments())
	if description == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /newplan <description>\nExample: /newplan prepare for the calculus final over the next four weeks")
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

	if err := h.backend.CreatePlan(ctx, sess.AccessToken, description); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to create plan: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not create the plan, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Study plan created. See it with /plans.")
}

func (h *Handlers) handleDelPlan(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /delplan <id>")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	if err := h.backend.DeletePlan(ctx, sess.AccessToken, models.ID(id)); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		if h.notFound(msg.Chat.ID, err, "Study plan") {
			return
		}
		log.Printf("Failed to delete plan: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not delete the plan, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Study plan deleted.")
}
