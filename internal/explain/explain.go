// Package explain holds human-readable explanations for well-known
// preference keys.
package explain

// explanations maps preference keys to their descriptions. Add new
// entries here to surface them in rendered output.
var explanations = map[string]string{
	"javascript.enabled": "Master switch to enable or disable JavaScript execution. " +
		"When set to true, JavaScript can run in web pages. When false, JavaScript is " +
		"completely disabled, which may break many modern websites that rely on it.",
	"privacy.trackingprotection.enabled": "Enables built-in tracking protection to block " +
		"online trackers. When set to true, known tracking scripts and third-party tracker " +
		"cookies are blocked. When false, trackers may monitor browsing activity across sites.",
	"app.update.auto": "Controls automatic application updates. When true, updates are " +
		"downloaded and installed without asking. When false, updates require confirmation.",
	"network.proxy.type": "Selects the proxy configuration mode. 0 disables proxying, " +
		"1 uses manual proxy settings, 2 uses a PAC script URL, 4 auto-detects the proxy, " +
		"and 5 follows the system proxy settings.",
	"browser.startup.homepage": "The page or pages opened by the Home button and at " +
		"startup when the session is configured to show the homepage. Multiple URLs are " +
		"separated by pipe characters.",
}

// Lookup returns the explanation for a preference key, if one exists.
func Lookup(key string) (string, bool) {
	text, ok := explanations[key]
	return text, ok
}
