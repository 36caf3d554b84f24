// Package domain models anemometer wind observations and the detection
// logic that decides when sustained high wind begins.
//
// # Data Source
//
// Observations are scraped from a coastal anemometer station that publishes
// recent readings as an HTML table. Each row carries a local timestamp
// (fixed UTC offset, no DST), a compass bearing in degrees, and an average
// wind speed in m/s. The station republishes a sliding window of recent
// history on every request, so consecutive fetches overlap heavily; the
// windowing layer (internal/window) is responsible for deduplication.
//
// # Detection
//
// Raw per-sample readings are noisy: a single gust over the threshold, or a
// single lull under it, must not flip the alert state. [WindTracker] applies
// hysteresis: a configurable number of consecutive matching samples is
// required to enter the High state, and a configurable number of consecutive
// non-matching samples to leave it. A sample matches when its average speed
// reaches the threshold and its bearing falls inside the target [Sector].
//
// Only the first confirmation of sustained wind is a reportable event.
// Re-entering High from Cooldown is a continuation of the same episode and
// fires nothing.
package domain
