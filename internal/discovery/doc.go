// Package discovery locates mixer consoles on the local network.
//
// Consoles make themselves known two ways. Every powered-on unit
// broadcasts a presence datagram to UDP port 47809 roughly every three
// seconds; the datagram is an ordinary protocol frame carrying a
// DeviceAnnounce payload with the console's name, model, serial number
// and control port. Units on recent firmware additionally advertise an
// "_ucnet._tcp" service over multicast DNS.
//
// # Discovery Process
//
// The broadcast scan works as follows:
//  1. Binds UDP port 47809 and listens for announce datagrams
//  2. Decodes each datagram with the shared frame codec
//  3. Filters out anything that is not a DeviceAnnounce payload
//  4. Deduplicates by serial number, keeping the newest record
//  5. Returns the collected devices when the scan window closes
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	devices, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, device := range devices {
//	    fmt.Printf("Found: %s (dial %s)\n", device, device.Addr())
//	}
//
// # Control Port
//
// Connect to the port carried in the announce. Most units listen on
// 53000, but newer firmware moved the control service to 49162; the
// announced value is authoritative.
//
// # Network Requirements
//
// - The scanning host must sit on the same broadcast segment
// - Firewalls must allow inbound UDP 47809 (and UDP 5353 for mDNS)
//
// # Thread Safety
//
// Scanners hold no shared state. Multiple scans can run simultaneously
// as long as only one binds the fixed announce port at a time.
package discovery
