package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonikaTammineni/fsadproject/internal/fakeapi"
)

var clinicNow = time.Date(2026, 10, 19, 10, 7, 0, 0, time.UTC)

func clock() time.Time { return clinicNow }

type harness struct {
	t         *testing.T
	srv       *fakeapi.Server
	url       string
	dataDir   string
	configDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv, err := fakeapi.New(fakeapi.WithClock(clock), fakeapi.WithDemoData())
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &harness{
		t:         t,
		srv:       srv,
		url:       ts.URL,
		dataDir:   t.TempDir(),
		configDir: t.TempDir(),
	}
}

type result struct {
	out    string
	errOut string
	err    error
}

// run executes one recordctl invocation against the fake API.
func (h *harness) run(stdin string, args ...string) result {
	h.t.Helper()
	a := &app{now: clock}
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	base := []string{"--data-dir", h.dataDir, "--config-dir", h.configDir}
	if h.url != "" {
		base = append(base, "--base-url", h.url)
	}
	root.SetArgs(append(base, args...))
	err := root.Execute()
	// PersistentPostRunE is skipped when RunE fails.
	_ = a.close()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func (h *harness) login(email string) {
	h.t.Helper()
	r := h.run("", "login", "--email", email, "--password", fakeapi.DemoPassword)
	require.NoError(h.t, r.err, r.errOut)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "login", "--email", fakeapi.DemoAdminEmail, "--password", fakeapi.DemoPassword)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Logged in as Ada Admin (ADMIN)")
	assert.Contains(t, r.out, "Session expires")

	r = h.run("", "whoami")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "<admin@clinic.test>")
	assert.Contains(t, r.out, "Account: ADMIN")

	r = h.run("", "logout")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Logged out")

	r = h.run("", "whoami")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "not logged in")
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	h := newHarness(t)
	r := h.run(fakeapi.DemoPassword+"\n", "login", "--email", fakeapi.DemoDoctorEmail, "--password-stdin")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Meredith Grey (DOCTOR)")
}

func TestLogin_RefusedKeepsNoSession(t *testing.T) {
	h := newHarness(t)
	r := h.run("", "login", "--email", fakeapi.DemoAdminEmail, "--password", "wrong1")
	require.Error(t, r.err)

	r = h.run("", "patients", "list")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "not logged in")
}

func TestConfigFileSuppliesBaseURL(t *testing.T) {
	h := newHarness(t)
	cfg := "base_url: " + h.url + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, configFileExt), []byte(cfg), 0o644))

	url := h.url
	h.url = ""
	defer func() { h.url = url }()

	r := h.run("", "login", "--email", fakeapi.DemoAdminEmail, "--password", fakeapi.DemoPassword)
	require.NoError(t, r.err, r.errOut)
}

func TestDefaultConfigIsWritten(t *testing.T) {
	h := newHarness(t)
	r := h.run("", "logout")
	require.NoError(t, r.err)
	data, err := os.ReadFile(filepath.Join(h.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url")
}

func TestPatientsList_FilterSortJSON(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoAdminEmail)

	r := h.run("", "patients", "list", "--query", "jo")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "John")
	assert.NotContains(t, r.out, "Jane")
	assert.Contains(t, r.out, "1 of 4 patients")

	r = h.run("", "patients", "list", "--json", "--sort", "lastName", "--desc")
	require.NoError(t, r.err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "Roe", rows[0]["lastName"])
	assert.Equal(t, "Doe", rows[3]["lastName"])
	assert.EqualValues(t, 36, rows[3]["age"])

	r = h.run("", "patients", "list", "--search-column", "age")
	require.Error(t, r.err)
}

func TestUsersEditAndDelete(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoAdminEmail)

	r := h.run("", "users", "edit", "5", "--set", "lastName=Smith")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "User updated successfully.")
	u, ok := h.srv.User(5)
	require.True(t, ok)
	assert.Equal(t, "Smith", u.LastName)

	r = h.run("", "users", "edit", "5", "--set", "mobileNumber=123")
	require.Error(t, r.err)
	var shown reportedError
	assert.True(t, errors.As(r.err, &shown))
	assert.Contains(t, r.errOut, "mobileNumber: 10 digit number required")
	assert.Contains(t, r.errOut, "Please fix the errors before submitting.")

	r = h.run("", "users", "edit", "5", "--set", "id=9")
	require.Error(t, r.err)

	r = h.run("n\n", "users", "delete", "6")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Delete user 6? [y/N]")
	assert.Contains(t, r.out, "Cancelled")
	_, ok = h.srv.User(6)
	assert.True(t, ok)

	r = h.run("", "users", "delete", "6", "--yes")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "User deleted")
	_, ok = h.srv.User(6)
	assert.False(t, ok)
}

func TestUsersEdit_FieldErrorsInNameOrder(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoAdminEmail)

	r := h.run("", "users", "edit", "5",
		"--set", "mobileNumber=123", "--set", "email=nope", "--set", "firstName=")
	require.Error(t, r.err)
	want := "  email: Invalid email format\n" +
		"  firstName: Required\n" +
		"  mobileNumber: 10 digit number required\n"
	assert.True(t, strings.HasPrefix(r.errOut, want), r.errOut)
}

func TestFiles_SelectListDownloadUpload(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoAdminEmail)

	r := h.run("", "files", "list")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "no patient selected")

	r = h.run("", "patients", "select", "4")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Selected patient John Doe (id 4)")

	r = h.run("", "files", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "blood-panel.pdf")
	assert.Contains(t, r.out, "amoxicillin.txt")

	dst := filepath.Join(t.TempDir(), "panel.pdf")
	r = h.run("", "files", "download", "1", "-o", dst)
	require.NoError(t, r.err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 blood panel", string(data))

	r = h.run("", "files", "open-url", "1", "--mode", "attachment")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "/s3/viewFile")
	assert.Contains(t, r.out, "mode=attachment")

	src := filepath.Join(t.TempDir(), "ecg.txt")
	require.NoError(t, os.WriteFile(src, []byte("sinus rhythm"), 0o644))
	r = h.run("", "files", "upload", src, "--category", "ECG")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "File uploaded successfully")

	r = h.run("", "files", "list", "--json", "--patient", "4")
	require.NoError(t, r.err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &rows))
	assert.Len(t, rows, 3)

	r = h.run("", "files", "edit", "2", "--set", "category=Medication")
	require.NoError(t, r.err, r.errOut)
	f, ok := h.srv.File(2)
	require.True(t, ok)
	assert.Equal(t, "Medication", f.Category)
}

func TestReportsList_Patient(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoPatientEmail)

	r := h.run("", "reports", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "blood-panel.pdf")
	assert.Contains(t, r.out, "2 of 2 reports")
}

func TestAppointments(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoAdminEmail)

	r := h.run("", "appointments", "list", "--date", "2026-10-20", "--json")
	require.NoError(t, r.err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &rows))
	assert.Len(t, rows, 2)

	r = h.run("", "appointments", "book", "--patient", "4", "--doctor", "3", "--date", "2026-10-21", "--time", "10:00")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "Appointment created successfully.")

	r = h.run("", "appointments", "book", "--patient", "4", "--doctor", "3", "--date", "2026-10-18", "--time", "10:00")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "appointmentDate")

	r = h.run("", "appointments", "list", "--patient", "4")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "2 of 2 appointments")

	r = h.run("", "appointments", "edit", "1", "--set", "status=COMPLETED")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "edited successfully")
	a, ok := h.srv.Appointment(1)
	require.True(t, ok)
	assert.Equal(t, "COMPLETED", a.Status)

	r = h.run("", "appointments", "delete", "2", "-y")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Appointment deleted")
}

func TestDoctorsList(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoPatientEmail)

	r := h.run("", "doctors", "list", "--sort", "lastName")
	require.NoError(t, r.err)
	assert.Less(t, strings.Index(r.out, "Grey"), strings.Index(r.out, "House"))
}

func TestBrowse_UnknownView(t *testing.T) {
	h := newHarness(t)
	h.login(fakeapi.DemoAdminEmail)

	r := h.run("", "browse", "billing")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "unknown view")
}

func TestFieldValues(t *testing.T) {
	got, err := fieldValues([]string{"lastName=Smith", " notes = a=b"})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"lastName", "Smith"}, {"notes", " a=b"}}, got)

	_, err = fieldValues([]string{"novalue"})
	assert.Error(t, err)
	_, err = fieldValues([]string{"=x"})
	assert.Error(t, err)
}
