package web

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/application/formsession"
	"sportsschool/internal/application/formstate"
	"sportsschool/internal/domain/access"
	"sportsschool/internal/domain/assessment"
	"sportsschool/internal/domain/attendance"
	"sportsschool/internal/domain/student"
	"sportsschool/internal/domain/validation"
)

// markPrefix prefixes the per-student fields of an attendance sheet.
const markPrefix = "mark:"

// --- Attendance ---

var attendanceList = listDef{
	Path:     "/attendance",
	Title:    "Attendance",
	NewLabel: "Take attendance",
	ViewCap:  access.ViewRoster,
	EditCap:  access.RecordAttendance,
	SortKeys: attendance.SortKeys,
	Filters: []filterDef{
		{Key: "group", Label: "Group", Type: "select", Options: student.Groups},
		{Key: "from", Label: "From", Type: "date"},
		{Key: "to", Label: "To", Type: "date"},
	},
	Columns: []column{
		{Label: "Date", Sort: "date"},
		{Label: "Group", Sort: "group"},
		{Label: "Coach", Sort: "coach"},
		{Label: "Attended"},
		{Label: "Rate"},
	},
	Fetch: func(ctx context.Context, c *backend.Client, q url.Values) (listPage, error) {
		p, err := c.ListAttendance(ctx, q)
		if err != nil {
			return listPage{}, err
		}
		rows := make([]listRow, len(p.Items))
		for i, s := range p.Items {
			sum := s.Summarize()
			rows[i] = listRow{
				ID: s.ID,
				Cells: []string{
					s.Date,
					s.Group,
					s.CoachName,
					strconv.Itoa(sum.Attended()) + " / " + strconv.Itoa(sum.Total),
					strconv.FormatFloat(sum.Rate(), 'f', 0, 64) + "%",
				},
			}
		}
		return listPage{Rows: rows, Total: p.Total, Page: p.Page, PageSize: p.PageSize}, nil
	},
}

var attendanceFields = []field{
	{Name: "group", Label: "Group", Type: fieldHidden},
	{Name: "date", Label: "Date", Type: fieldDate, Required: true},
	{Name: "coach_id", Label: "Coach", Type: fieldSelect, Choices: "coach_id"},
	{Name: "notes", Label: "Notes", Type: fieldTextarea},
}

// attendanceSheet builds schema and values from a sheet's marks.
func attendanceSheet(marks []attendance.Mark, coaches []formsession.Choice, values formstate.Values) openedForm {
	schema := schemaOf(attendanceFields)
	roster := make([]formsession.Choice, len(marks))
	for i, m := range marks {
		key := markPrefix + m.StudentID
		schema.Fields = append(schema.Fields, key)
		status := m.Status
		if status == "" {
			status = attendance.MarkPresent
		}
		values[key] = []string{status}
		roster[i] = formsession.Choice{Value: m.StudentID, Label: m.StudentName}
	}
	return openedForm{
		Schema:  schema,
		Values:  values,
		Choices: map[string][]formsession.Choice{"coach_id": coaches, "marks": roster},
	}
}

// sessionFromValues builds the sheet the draft describes. Marks are ordered
// by student ID.
func sessionFromValues(v formstate.Values) attendance.Session {
	s := attendance.Session{
		Group:   v.Get("group"),
		Date:    v.Get("date"),
		CoachID: v.Get("coach_id"),
		Notes:   v.Get("notes"),
		Marks:   []attendance.Mark{},
	}
	keys := make([]string, 0, len(v))
	for key := range v {
		if strings.HasPrefix(key, markPrefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	for _, key := range keys {
		s.Marks = append(s.Marks, attendance.Mark{StudentID: strings.TrimPrefix(key, markPrefix), Status: v.Get(key)})
	}
	return s
}

var attendanceForm = registerForm(formDef{
	Kind:     "attendance",
	Title:    "Attendance sheet",
	ListPath: "/attendance",
	EditCap:  access.RecordAttendance,
	Fields:   attendanceFields,
	Dynamic:  &field{Type: fieldRadio, Options: choicesOf(attendance.MarkStatuses)},
	Open: func(ctx context.Context, c *backend.Client, id string, q url.Values) (openedForm, error) {
		coaches, err := coachChoices(ctx, c)
		if err != nil {
			return openedForm{}, err
		}
		if id == "" {
			group := q.Get("group")
			roster, err := c.AttendanceRoster(ctx, group)
			if err != nil {
				return openedForm{}, err
			}
			date := q.Get("date")
			if date == "" {
				date = timeNow().Format(validation.DateLayout)
			}
			return attendanceSheet(roster.Marks, coaches, formstate.Values{
				"group": {roster.Group},
				"date":  {date},
			}), nil
		}
		s, err := c.GetAttendance(ctx, id)
		if err != nil {
			return openedForm{}, err
		}
		return attendanceSheet(s.Marks, coaches, formstate.Values{
			"group":    {s.Group},
			"date":     {s.Date},
			"coach_id": {s.CoachID},
			"notes":    {s.Notes},
		}), nil
	},
	Validate: func(v formstate.Values) map[string]string {
		s := sessionFromValues(v)
		var extra map[string]string
		if len(s.Marks) == 0 {
			extra = map[string]string{"marks": attendance.ErrNoMarks.Error()}
		}
		return mergeErrors(validation.Struct(&s), extra)
	},
	Persist: func(ctx context.Context, c *backend.Client, id string, v formstate.Values) error {
		s := sessionFromValues(v)
		_, err := c.SaveAttendance(ctx, id, backend.AttendanceInput{
			Group:   s.Group,
			Date:    s.Date,
			CoachID: s.CoachID,
			Notes:   s.Notes,
			Marks:   s.Marks,
		})
		return err
	},
})

// handleAttendanceNew handles GET /attendance/new. Without a group it asks
// for one; with a group it opens a sheet pre-filled from the group's roster.
func handleAttendanceNew(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group == "" {
		renderTemplate(w, r, "attendance_pick.html", map[string]any{
			"Title":  "Take attendance",
			"Groups": choicesOf(student.Groups),
			"Date":   timeNow().Format(validation.DateLayout),
		})
		return
	}
	openForm(w, r, attendanceForm, "")
}

// --- Assessments ---

var assessmentList = listDef{
	Path:     "/assessments",
	Title:    "Assessments",
	NewLabel: "New assessment",
	ViewCap:  access.ViewRoster,
	EditCap:  access.EditAssessments,
	SortKeys: assessment.SortKeys,
	Filters: []filterDef{
		{Key: "skill", Label: "Skill", Type: "select", Options: assessment.Skills},
	},
	Columns: []column{
		{Label: "Date", Sort: "assessed_on"},
		{Label: "Student", Sort: "student"},
		{Label: "Skill", Sort: "skill"},
		{Label: "Score", Sort: "score"},
		{Label: "Coach"},
	},
	Fetch: func(ctx context.Context, c *backend.Client, q url.Values) (listPage, error) {
		p, err := c.ListAssessments(ctx, q)
		if err != nil {
			return listPage{}, err
		}
		rows := make([]listRow, len(p.Items))
		for i, a := range p.Items {
			rows[i] = listRow{
				ID:    a.ID,
				Cells: []string{a.AssessedOn, a.StudentName, humanize(a.Skill), strconv.Itoa(a.Score) + " (" + a.Band() + ")", a.CoachName},
			}
		}
		return listPage{Rows: rows, Total: p.Total, Page: p.Page, PageSize: p.PageSize}, nil
	},
}

var assessmentFields = []field{
	{Name: "student_id", Label: "Student", Type: fieldSelect, Choices: "student_id", Required: true},
	{Name: "coach_id", Label: "Coach", Type: fieldSelect, Choices: "coach_id"},
	{Name: "skill", Label: "Skill", Type: fieldSelect, Options: choicesOf(assessment.Skills), Required: true},
	{Name: "score", Label: "Score", Type: fieldNumber, Required: true, Help: "0 to 10"},
	{Name: "notes", Label: "Notes", Type: fieldTextarea},
	{Name: "assessed_on", Label: "Assessed on", Type: fieldDate, Required: true},
}

// assessmentFromValues builds the entity the draft describes and reports a
// malformed score separately.
func assessmentFromValues(v formstate.Values) (assessment.Assessment, bool) {
	score, ok := intField(v, "score")
	return assessment.Assessment{
		StudentID:  v.Get("student_id"),
		CoachID:    v.Get("coach_id"),
		Skill:      v.Get("skill"),
		Score:      score,
		Notes:      v.Get("notes"),
		AssessedOn: v.Get("assessed_on"),
	}, ok
}

var assessmentForm = registerForm(formDef{
	Kind:     "assessment",
	Title:    "Assessment",
	ListPath: "/assessments",
	EditCap:  access.EditAssessments,
	Fields:   assessmentFields,
	Open: func(ctx context.Context, c *backend.Client, id string, _ url.Values) (openedForm, error) {
		students, err := studentChoices(ctx, c)
		if err != nil {
			return openedForm{}, err
		}
		coaches, err := coachChoices(ctx, c)
		if err != nil {
			return openedForm{}, err
		}
		out := openedForm{
			Schema:  schemaOf(assessmentFields),
			Values:  formstate.Values{"assessed_on": {timeNow().Format(validation.DateLayout)}},
			Choices: map[string][]formsession.Choice{"student_id": students, "coach_id": coaches},
		}
		if id == "" {
			return out, nil
		}
		a, err := c.GetAssessment(ctx, id)
		if err != nil {
			return openedForm{}, err
		}
		out.Values = formstate.Values{
			"student_id":  {a.StudentID},
			"coach_id":    {a.CoachID},
			"skill":       {a.Skill},
			"score":       {strconv.Itoa(a.Score)},
			"notes":       {a.Notes},
			"assessed_on": {a.AssessedOn},
		}
		return out, nil
	},
	Validate: func(v formstate.Values) map[string]string {
		a, ok := assessmentFromValues(v)
		var extra map[string]string
		if !ok {
			extra = map[string]string{"score": "Enter a whole number from 0 to 10"}
		}
		return mergeErrors(validation.Struct(&a), extra)
	},
	Persist: func(ctx context.Context, c *backend.Client, id string, v formstate.Values) error {
		a, _ := assessmentFromValues(v)
		_, err := c.SaveAssessment(ctx, id, backend.AssessmentInput{
			StudentID:  a.StudentID,
			CoachID:    a.CoachID,
			Skill:      a.Skill,
			Score:      a.Score,
			Notes:      a.Notes,
			AssessedOn: a.AssessedOn,
		})
		return err
	},
})
