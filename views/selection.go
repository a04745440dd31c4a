package views

import (
	"github.com/MonikaTammineni/fsadproject/browser"
	"github.com/MonikaTammineni/fsadproject/client"
	"github.com/MonikaTammineni/fsadproject/session"
)

// SelectedPatientKey is the store key the patient selector hands its
// choice over under.
const SelectedPatientKey = "selectedPatient"

// RememberPatient stores the chosen patient for the files screen.
func RememberPatient(st session.Store, rec browser.Record) (client.Patient, error) {
	var p client.Patient
	if err := browser.Decode(rec, &p); err != nil {
		return client.Patient{}, err
	}
	return p, session.PutSelected(st, SelectedPatientKey, p)
}

// SelectedPatient returns the patient last chosen in the selector.
func SelectedPatient(st session.Store) (client.Patient, bool, error) {
	var p client.Patient
	ok, err := session.GetSelected(st, SelectedPatientKey, &p)
	return p, ok, err
}
