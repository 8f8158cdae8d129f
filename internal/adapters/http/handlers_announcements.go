package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/application/formstate"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/announcement"
	"sportsschool/internal/domain/validation"
)

var announcementList = listDef{
	Path:     "/announcements",
	Title:    "Announcements",
	NewLabel: "New announcement",
	ViewCap:  access.ViewRoster,
	EditCap:  access.EditAnnouncements,
	ActCap:   access.PublishAnnouncement,
	Statuses: announcement.Statuses,
	SortKeys: announcement.SortKeys,
	Filters: []filterDef{
		{Key: "audience", Label: "Audience", Type: "select", Options: announcement.Audiences},
	},
	Columns: []column{
		{Label: "Title", Sort: "title"},
		{Label: "Audience"},
		{Label: "Status", Sort: "status"},
		{Label: "Updated", Sort: "updated_at"},
	},
	Fetch: func(ctx context.Context, c *backend.Client, q url.Values) (listPage, error) {
		p, err := c.ListAnnouncements(ctx, q)
		if err != nil {
			return listPage{}, err
		}
		rows := make([]listRow, len(p.Items))
		for i, a := range p.Items {
			title := a.Title
			if a.Pinned {
				title += " (pinned)"
			}
			row := listRow{
				ID:     a.ID,
				Cells:  []string{title, strings.Join(a.Audience, ", "), humanize(a.Status), formatDate(a.UpdatedAt)},
				Status: a.Status,
			}
			if a.IsPublished() {
				row.Actions = []rowAction{{Action: "unpublish", Label: "Unpublish", Confirm: "Unpublish \"" + a.Title + "\"? It will no longer be visible to its audience."}}
			} else {
				row.Actions = []rowAction{{Action: "publish", Label: "Publish", Confirm: "Publish \"" + a.Title + "\" to " + strings.Join(a.Audience, ", ") + "?"}}
			}
			rows[i] = row
		}
		return listPage{Rows: rows, Total: p.Total, Page: p.Page, PageSize: p.PageSize}, nil
	},
	Act: func(ctx context.Context, c *backend.Client, id, action string) error {
		_, err := c.SetAnnouncementStatus(ctx, id, action)
		return err
	},
}

var announcementFields = []field{
	{Name: "title", Label: "Title", Type: fieldText, Required: true},
	{Name: "content", Label: "Content", Type: fieldMarkdown, Required: true, Help: "Markdown is supported."},
	{Name: "audience", Label: "Audience", Type: fieldCheckboxes, Options: choicesOf(announcement.Audiences), Required: true},
	{Name: "pinned", Label: "Pin to the top of the dashboard", Type: fieldCheckbox},
}

// announcementFromValues builds the entity the draft describes.
func announcementFromValues(v formstate.Values) announcement.Announcement {
	return announcement.Announcement{
		Title:    v.Get("title"),
		Content:  v.Get("content"),
		Audience: v.List("audience"),
		Pinned:   isChecked(v, "pinned"),
		Status:   announcement.StatusDraft,
	}
}

var announcementForm = registerForm(formDef{
	Kind:     "announcement",
	Title:    "Announcement",
	ListPath: "/announcements",
	EditCap:  access.EditAnnouncements,
	Fields:   announcementFields,
	Open: func(ctx context.Context, c *backend.Client, id string, _ url.Values) (openedForm, error) {
		out := openedForm{Schema: schemaOf(announcementFields), Values: formstate.Values{}}
		if id == "" {
			return out, nil
		}
		a, err := c.GetAnnouncement(ctx, id)
		if err != nil {
			return openedForm{}, err
		}
		out.Values = formstate.Values{
			"title":    {a.Title},
			"content":  {a.Content},
			"audience": a.Audience,
			"pinned":   boolValues(a.Pinned),
		}
		return out, nil
	},
	Validate: func(v formstate.Values) map[string]string {
		a := announcementFromValues(v)
		return mergeErrors(validation.Struct(&a), nil)
	},
	Persist: func(ctx context.Context, c *backend.Client, id string, v formstate.Values) error {
		a := announcementFromValues(v)
		_, err := c.SaveAnnouncement(ctx, id, backend.AnnouncementInput{
			Title:    a.Title,
			Content:  a.Content,
			Audience: a.Audience,
			Pinned:   a.Pinned,
		})
		return err
	},
})

// handleAnnouncementPreview handles POST /announcements/preview.
// Returns the Markdown content rendered as an HTML fragment.
func handleAnnouncementPreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(renderMarkdown(r.PostForm.Get("content"))))
}
