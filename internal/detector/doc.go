// Package detector determines whether any configured meeting application is
// currently running.
//
// Detection uses exact string matching against the live process table:
//   - Names must match exactly as they appear in the process list
//   - No partial, substring, or fuzzy matching
//   - Case-sensitive
//   - Implemented with `pgrep` and ^…$ regex anchors; metacharacters in a
//     configured name are escaped so the match stays literal
//
// To find the exact process name for a meeting application, start it and run
// `pgrep -l <partial_name>`. Examples: "zoom.us" (Zoom), "Microsoft Teams"
// (Teams), "TencentMeeting", "Lark Helper (Iron)" (Feishu/Lark).
//
// A failing or missing pgrep is treated as "process not running", never as an
// error: detection degrades rather than crashing the monitoring cycle.
package detector
