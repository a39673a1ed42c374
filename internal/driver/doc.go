// Package driver maintains one control connection to a mixing console.
//
// A Driver owns the socket and multiplexes it between request/reply
// commands and unsolicited notifications. One goroutine runs the read
// loop (Run); replies are matched to in-flight requests by the
// correlation key derived from each payload, and everything else fans
// out to Listen subscribers.
//
// Typical use:
//
//	d, err := driver.Dial(ctx, "192.168.1.50:53000")
//	if err != nil {
//	    return err
//	}
//	go func() { errCh <- d.Run(ctx) }()
//
//	if err := d.Subscribe(ctx); err != nil {
//	    return err
//	}
//
//	notifications, cancel := d.Listen()
//	defer cancel()
//
//	reply, err := d.Request(ctx, protocol.BuildMute(1, true))
//
// The connection does not survive errors: any framing, decode, or
// socket failure on the read path fails every in-flight request, closes
// subscriber channels, and makes Run return the error. Reconnection is
// the caller's policy.
package driver
