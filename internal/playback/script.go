package playback

import (
	"context"

	"github.com/kfstorm/soundbreak/internal/shell"
)

// nowPlayingScript asks each known player for its state without launching it.
// Output is "isPlaying|player|track", e.g. "true|Spotify|Artist - Track".
const nowPlayingScript = `
tell application "System Events"
	try
		set isPlaying to false
		set playerName to ""
		set trackInfo to ""

		set spotifyRunning to false
		repeat with proc in (every process whose name is "Spotify")
			set spotifyRunning to true
			exit repeat
		end repeat

		if spotifyRunning then
			tell application "Spotify"
				if player state is playing then
					set isPlaying to true
					set playerName to "Spotify"
					set trackInfo to (artist of current track) & " - " & (name of current track)
				end if
			end tell
		end if

		if not isPlaying then
			set musicRunning to false
			repeat with proc in (every process whose name is "Music")
				set musicRunning to true
				exit repeat
			end repeat

			if musicRunning then
				tell application "Music"
					if player state is playing then
						set isPlaying to true
						set playerName to "Music"
						try
							set trackInfo to (artist of current track) & " - " & (name of current track)
						on error
							set trackInfo to "Unknown Track"
						end try
					end if
				end tell
			end if
		end if

		return (isPlaying as string) & "|" & playerName & "|" & trackInfo
	on error errMsg
		return "error||" & errMsg
	end try
end tell`

// pauseScript pauses every known player that is currently playing and
// reports which ones it touched.
const pauseScript = `
tell application "System Events"
	set pausedApps to {}

	set spotifyRunning to false
	repeat with proc in (every process whose name is "Spotify")
		set spotifyRunning to true
		exit repeat
	end repeat

	if spotifyRunning then
		tell application "Spotify"
			if player state is playing then
				pause
				set pausedApps to pausedApps & {"Spotify"}
			end if
		end tell
	end if

	set musicRunning to false
	repeat with proc in (every process whose name is "Music")
		set musicRunning to true
		exit repeat
	end repeat

	if musicRunning then
		tell application "Music"
			if player state is playing then
				pause
				set pausedApps to pausedApps & {"Music"}
			end if
		end tell
	end if

	if length of pausedApps is 0 then
		return ""
	end if
	return "Paused: " & (pausedApps as string)
end tell`

// playScript resumes every known player that is currently paused.
const playScript = `
tell application "System Events"
	set resumedApps to {}

	set spotifyRunning to false
	repeat with proc in (every process whose name is "Spotify")
		set spotifyRunning to true
		exit repeat
	end repeat

	if spotifyRunning then
		tell application "Spotify"
			if player state is paused then
				play
				set resumedApps to resumedApps & {"Spotify"}
			end if
		end tell
	end if

	set musicRunning to false
	repeat with proc in (every process whose name is "Music")
		set musicRunning to true
		exit repeat
	end repeat

	if musicRunning then
		tell application "Music"
			if player state is paused then
				play
				set resumedApps to resumedApps & {"Music"}
			end if
		end tell
	end if

	if length of resumedApps is 0 then
		return ""
	end if
	return "Resumed: " & (resumedApps as string)
end tell`

// mediaKeyScript simulates the play/pause media key (F8) as a last resort;
// it targets whatever the OS considers the active media session.
const mediaKeyScript = `
tell application "System Events"
	key code 16 using {function down}
	return "Used media key fallback"
end tell`

// osascript runs an AppleScript body through the shared runner.
func osascript(ctx context.Context, runner shell.Runner, script string) (string, error) {
	out, err := runner.Run(ctx, "osascript", "-e", script)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
