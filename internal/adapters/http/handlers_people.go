package web

import (
	"context"
	"net/url"
	"strings"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/application/formsession"
	"sportsschool/internal/application/formstate"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/coach"
	"sportsschool/internal/domain/student"
	"sportsschool/internal/domain/validation"
)

// --- Coaches ---

var coachList = listDef{
	Path:     "/coaches",
	Title:    "Coaches",
	NewLabel: "New coach",
	ViewCap:  access.ViewRoster,
	EditCap:  access.EditCoaches,
	Statuses: coach.Statuses,
	SortKeys: coach.SortKeys,
	Filters: []filterDef{
		{Key: "specialty", Label: "Specialty", Type: "select", Options: coach.Specialties},
	},
	Columns: []column{
		{Label: "Name", Sort: "name"},
		{Label: "Email", Sort: "email"},
		{Label: "Specialties"},
		{Label: "Status", Sort: "status"},
	},
	Fetch: func(ctx context.Context, c *backend.Client, q url.Values) (listPage, error) {
		p, err := c.ListCoaches(ctx, q)
		if err != nil {
			return listPage{}, err
		}
		rows := make([]listRow, len(p.Items))
		for i, co := range p.Items {
			row := listRow{
				ID:     co.ID,
				Cells:  []string{co.Name, co.Email, strings.Join(co.Specialties, ", "), humanize(co.Status)},
				Status: co.Status,
			}
			if co.IsActive() {
				row.Actions = []rowAction{{Action: "deactivate", Label: "Deactivate", Confirm: "Deactivate " + co.Name + "? They can no longer be assigned to sessions.", Danger: true}}
			} else {
				row.Actions = []rowAction{{Action: "activate", Label: "Activate", Confirm: "Activate " + co.Name + "?"}}
			}
			rows[i] = row
		}
		return listPage{Rows: rows, Total: p.Total, Page: p.Page, PageSize: p.PageSize}, nil
	},
	Act: func(ctx context.Context, c *backend.Client, id, action string) error {
		_, err := c.SetCoachStatus(ctx, id, action)
		return err
	},
}

var coachFields = []field{
	{Name: "name", Label: "Name", Type: fieldText, Required: true},
	{Name: "email", Label: "Email", Type: fieldEmail, Required: true},
	{Name: "phone", Label: "Phone", Type: fieldTel},
	{Name: "specialties", Label: "Specialties", Type: fieldCheckboxes, Options: choicesOf(coach.Specialties)},
	{Name: "bio", Label: "Bio", Type: fieldTextarea},
}

func coachFromValues(v formstate.Values) coach.Coach {
	return coach.Coach{
		Name:        v.Get("name"),
		Email:       v.Get("email"),
		Phone:       v.Get("phone"),
		Specialties: v.List("specialties"),
		Bio:         v.Get("bio"),
		Status:      coach.StatusActive,
	}
}

var coachForm = registerForm(formDef{
	Kind:     "coach",
	Title:    "Coach",
	ListPath: "/coaches",
	EditCap:  access.EditCoaches,
	Fields:   coachFields,
	Open: func(ctx context.Context, c *backend.Client, id string, _ url.Values) (openedForm, error) {
		out := openedForm{Schema: schemaOf(coachFields), Values: formstate.Values{}}
		if id == "" {
			return out, nil
		}
		co, err := c.GetCoach(ctx, id)
		if err != nil {
			return openedForm{}, err
		}
		out.Values = formstate.Values{
			"name":        {co.Name},
			"email":       {co.Email},
			"phone":       {co.Phone},
			"specialties": co.Specialties,
			"bio":         {co.Bio},
		}
		return out, nil
	},
	Validate: func(v formstate.Values) map[string]string {
		co := coachFromValues(v)
		return mergeErrors(validation.Struct(&co), nil)
	},
	Persist: func(ctx context.Context, c *backend.Client, id string, v formstate.Values) error {
		co := coachFromValues(v)
		_, err := c.SaveCoach(ctx, id, backend.CoachInput{
			Name:        co.Name,
			Email:       co.Email,
			Phone:       co.Phone,
			Specialties: co.Specialties,
			Bio:         co.Bio,
		})
		return err
	},
})

// --- Students ---

var studentList = listDef{
	Path:     "/students",
	Title:    "Students",
	NewLabel: "New student",
	ViewCap:  access.ViewRoster,
	EditCap:  access.EditStudents,
	Statuses: student.Statuses,
	SortKeys: student.SortKeys,
	Filters: []filterDef{
		{Key: "group", Label: "Group", Type: "select", Options: student.Groups},
	},
	Columns: []column{
		{Label: "Name", Sort: "name"},
		{Label: "Email", Sort: "email"},
		{Label: "Groups"},
		{Label: "Born", Sort: "birth_date"},
		{Label: "Status", Sort: "status"},
	},
	Fetch: func(ctx context.Context, c *backend.Client, q url.Values) (listPage, error) {
		p, err := c.ListStudents(ctx, q)
		if err != nil {
			return listPage{}, err
		}
		rows := make([]listRow, len(p.Items))
		for i, s := range p.Items {
			row := listRow{
				ID:     s.ID,
				Cells:  []string{s.Name, s.Email, strings.Join(s.Groups, ", "), s.BirthDate, humanize(s.Status)},
				Status: s.Status,
			}
			switch s.Status {
			case student.StatusArchived:
				row.Actions = []rowAction{{Action: "restore", Label: "Restore", Confirm: "Restore " + s.Name + " to the active roster?"}}
			case student.StatusInactive:
				row.Actions = []rowAction{
					{Action: "activate", Label: "Activate", Confirm: "Activate " + s.Name + "?"},
					{Action: "archive", Label: "Archive", Confirm: "Archive " + s.Name + "? Archived students leave every roster.", Danger: true},
				}
			default:
				row.Actions = []rowAction{
					{Action: "deactivate", Label: "Deactivate", Confirm: "Pause " + s.Name + " without archiving?"},
					{Action: "archive", Label: "Archive", Confirm: "Archive " + s.Name + "? Archived students leave every roster.", Danger: true},
				}
			}
			rows[i] = row
		}
		return listPage{Rows: rows, Total: p.Total, Page: p.Page, PageSize: p.PageSize}, nil
	},
	Act: func(ctx context.Context, c *backend.Client, id, action string) error {
		_, err := c.SetStudentStatus(ctx, id, action)
		return err
	},
}

var studentFields = []field{
	{Name: "name", Label: "Name", Type: fieldText, Required: true},
	{Name: "email", Label: "Email", Type: fieldEmail},
	{Name: "phone", Label: "Phone", Type: fieldTel},
	{Name: "guardian_name", Label: "Guardian name", Type: fieldText},
	{Name: "guardian_phone", Label: "Guardian phone", Type: fieldTel},
	{Name: "groups", Label: "Groups", Type: fieldCheckboxes, Options: choicesOf(student.Groups)},
	{Name: "birth_date", Label: "Date of birth", Type: fieldDate},
}

func studentFromValues(v formstate.Values) student.Student {
	return student.Student{
		Name:          v.Get("name"),
		Email:         v.Get("email"),
		Phone:         v.Get("phone"),
		GuardianName:  v.Get("guardian_name"),
		GuardianPhone: v.Get("guardian_phone"),
		Groups:        v.List("groups"),
		BirthDate:     v.Get("birth_date"),
		Status:        student.StatusActive,
	}
}

var studentForm = registerForm(formDef{
	Kind:     "student",
	Title:    "Student",
	ListPath: "/students",
	EditCap:  access.EditStudents,
	Fields:   studentFields,
	Open: func(ctx context.Context, c *backend.Client, id string, _ url.Values) (openedForm, error) {
		out := openedForm{Schema: schemaOf(studentFields), Values: formstate.Values{}}
		if id == "" {
			return out, nil
		}
		s, err := c.GetStudent(ctx, id)
		if err != nil {
			return openedForm{}, err
		}
		out.Values = formstate.Values{
			"name":           {s.Name},
			"email":          {s.Email},
			"phone":          {s.Phone},
			"guardian_name":  {s.GuardianName},
			"guardian_phone": {s.GuardianPhone},
			"groups":         s.Groups,
			"birth_date":     {s.BirthDate},
		}
		return out, nil
	},
	Validate: func(v formstate.Values) map[string]string {
		s := studentFromValues(v)
		return mergeErrors(validation.Struct(&s), nil)
	},
	Persist: func(ctx context.Context, c *backend.Client, id string, v formstate.Values) error {
		s := studentFromValues(v)
		_, err := c.SaveStudent(ctx, id, backend.StudentInput{
			Name:          s.Name,
			Email:         s.Email,
			Phone:         s.Phone,
			GuardianName:  s.GuardianName,
			GuardianPhone: s.GuardianPhone,
			Groups:        s.Groups,
			BirthDate:     s.BirthDate,
		})
		return err
	},
})

// studentChoices lists active students for a picker.
// TODO: replace with a search-as-you-type picker once rosters outgrow one page of 100.
func studentChoices(ctx context.Context, c *backend.Client) ([]formsession.Choice, error) {
	p, err := c.ListStudents(ctx, url.Values{"status": {student.StatusActive}, "sort": {"name"}, "dir": {"asc"}, "page_size": {"100"}})
	if err != nil {
		return nil, err
	}
	out := make([]formsession.Choice, len(p.Items))
	for i, s := range p.Items {
		out[i] = formsession.Choice{Value: s.ID, Label: s.Name}
	}
	return out, nil
}

// coachChoices lists active coaches for a picker.
func coachChoices(ctx context.Context, c *backend.Client) ([]formsession.Choice, error) {
	p, err := c.ListCoaches(ctx, url.Values{"status": {coach.StatusActive}, "sort": {"name"}, "dir": {"asc"}, "page_size": {"100"}})
	if err != nil {
		return nil, err
	}
	out := make([]formsession.Choice, len(p.Items))
	for i, co := range p.Items {
		out[i] = formsession.Choice{Value: co.ID, Label: co.Name}
	}
	return out, nil
}
