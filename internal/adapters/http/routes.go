package web

import (
	"io/fs"
	"net/http"

	"sportsschool/internal/adapters/http/middleware"
)

// registerRoutes wires every portal page. Everything except login and static
// assets requires a signed-in session.
func registerRoutes(mux *http.ServeMux) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	auth := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }

	mux.Handle("POST /logout", auth(handleLogout))
	mux.Handle("GET /access-denied", auth(handleAccessDenied))
	mux.Handle("GET /{$}", auth(handleDashboard))

	for _, area := range []struct {
		list listDef
		form formDef
	}{
		{announcementList, announcementForm},
		{coachList, coachForm},
		{studentList, studentForm},
		{invoiceList, invoiceForm},
		{attendanceList, attendanceForm},
		{assessmentList, assessmentForm},
	} {
		p := area.list.Path
		mux.Handle("GET "+p, auth(handleList(area.list)))
		mux.Handle("GET "+p+"/{id}/edit", auth(handleFormEdit(area.form)))
		if area.list.Act != nil {
			mux.Handle("POST "+p+"/{id}/status", auth(handleRowAction(area.list)))
		}
		if p != attendanceList.Path {
			mux.Handle("GET "+p+"/new", auth(handleFormNew(area.form)))
		}
	}
	mux.Handle("GET /attendance/new", auth(handleAttendanceNew))
	mux.Handle("POST /announcements/preview", auth(handleAnnouncementPreview))

	mux.Handle("GET /forms/{id}", auth(handleFormShow))
	mux.Handle("POST /forms/{id}", auth(handleFormSave))
	mux.Handle("POST /forms/{id}/fields", auth(handleFormField))
	mux.Handle("GET /forms/{id}/leave", auth(handleFormLeave))
	mux.Handle("POST /forms/{id}/stay", auth(handleFormStay))
	mux.Handle("POST /forms/{id}/leave/confirm", auth(handleFormLeaveConfirm))

	mux.Handle("GET /reports", auth(handleReports))
	mux.Handle("GET /reports/export", auth(handleReportExport))
	mux.Handle("GET /settings/school", auth(handleFormSingleton(schoolForm, "school")))
	mux.Handle("GET /settings/preferences", auth(handleFormSingleton(preferencesForm, "me")))
	mux.Handle("GET /admin/perf", auth(handleAdminPerf))

	mux.Handle("/", auth(func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(w, r, backLink{})
	}))
}
