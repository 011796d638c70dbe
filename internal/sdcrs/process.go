// Package sdcrs holds the built-in Stray Dog Capture & Reporting System
// process: a teacher reports a stray dog, the system validates the
// submission, a verifier reviews it and a municipal corporation officer
// attempts the capture. The teacher is paid only after a successful capture.
package sdcrs

import (
	"github.com/rendis/procmap/internal/process"
	"github.com/rendis/procmap/pkg/schema"
)

const (
	Title = "SDCRS - Stray Dog Capture & Reporting System"
	Pool  = "SDCRS Process"
	Theme = "GREYWOOF"
)

// Lane names.
const (
	LaneTeacher   = "Teacher"
	LaneSystem    = "System"
	LaneVerifier  = "Verifier"
	LaneMCOfficer = "MC Officer"
)

func task(id, label string) schema.NodeDefinition {
	return schema.NodeDefinition{ID: id, Label: label, Kind: schema.NodeKindTask}
}

func decision(id, label string) schema.NodeDefinition {
	return schema.NodeDefinition{ID: id, Label: label, Kind: schema.NodeKindExclusiveGateway}
}

func flow(from, to string) schema.EdgeDefinition {
	return schema.EdgeDefinition{From: from, To: to}
}

func branch(from, to, label string) schema.EdgeDefinition {
	return schema.EdgeDefinition{From: from, To: to, Label: label}
}

// Definition returns a fresh copy of the SDCRS process definition.
func Definition() *schema.ProcessDefinition {
	return &schema.ProcessDefinition{
		Title: Title,
		Theme: Theme,
		Pool:  Pool,
		Lanes: []schema.LaneDefinition{
			{Name: LaneTeacher, Nodes: []schema.NodeDefinition{
				{ID: "start", Label: "Start", Kind: schema.NodeKindStartEvent},
				task("submit_app", "Submit Application\n(Photo+Selfie+GPS)"),
				task("update_status", "View Updated\nStatus"),
				task("receive_payout", "Receive Payout"),
			}},
			{Name: LaneSystem, Nodes: []schema.NodeDefinition{
				task("validate_submission", "Validate\n(GPS+Boundary+\nTimestamp+Hash)"),
				decision("auto_check", "Valid?"),
				task("auto_reject", "Auto Reject"),
				task("send_notif_sys", "Send\nNotification"),
				task("route_to_queue", "Route to\nVerification Queue"),
				task("route_to_mc", "Route to MC\nQueue"),
				task("award_points", "Award Points\n& Process Payout"),
			}},
			{Name: LaneVerifier, Nodes: []schema.NodeDefinition{
				task("review_evidence", "Review Evidence\n& Compare Duplicates"),
				decision("verify_decision", "Approve?"),
				task("approve", "Approve\nApplication"),
				task("reject", "Reject/Duplicate"),
				task("send_notif_v", "Send\nNotification"),
			}},
			{Name: LaneMCOfficer, Nodes: []schema.NodeDefinition{
				task("view_incidents", "View Verified\nApplications"),
				task("field_action", "Field Visit\n& Take Action"),
				decision("mc_result", "Success?"),
				task("captured", "Mark Captured/\nResolved"),
				task("unable_locate", "Mark Unable\nto Locate"),
				task("send_notif_mc_ok", "Send\nNotification"),
				task("send_notif_mc_fail", "Send\nNotification"),
			}},
		},
		Edges: []schema.EdgeDefinition{
			// Teacher submits.
			flow("start", "submit_app"),
			flow("submit_app", "validate_submission"),

			// Automated validation.
			flow("validate_submission", "auto_check"),
			branch("auto_check", "auto_reject", "No"),
			branch("auto_check", "route_to_queue", "Yes"),
			flow("auto_reject", "send_notif_sys"),
			flow("send_notif_sys", "update_status"),

			// Verifier review.
			flow("route_to_queue", "review_evidence"),
			flow("review_evidence", "verify_decision"),
			branch("verify_decision", "approve", "Yes"),
			branch("verify_decision", "reject", "No"),
			flow("reject", "send_notif_v"),
			flow("send_notif_v", "update_status"),
			flow("approve", "route_to_mc"),

			// Field action.
			flow("route_to_mc", "view_incidents"),
			flow("view_incidents", "field_action"),
			flow("field_action", "mc_result"),
			branch("mc_result", "captured", "Yes"),
			branch("mc_result", "unable_locate", "No"),

			// Success pays out; failure only notifies.
			flow("captured", "award_points"),
			flow("award_points", "send_notif_mc_ok"),
			flow("send_notif_mc_ok", "receive_payout"),
			flow("receive_payout", "update_status"),
			flow("unable_locate", "send_notif_mc_fail"),
			flow("send_notif_mc_fail", "update_status"),
		},
	}
}

// Process builds the SDCRS process.
func Process() (*process.Process, error) {
	return process.FromDefinition(Definition())
}
