package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://feathernet.github.io/ucremote/

// GettingStarted is the quick start guide covering network setup and
// first contact with a console.
const GettingStarted = "https://feathernet.github.io/ucremote/getting-started/"

// Troubleshooting provides solutions to common issues encountered when
// discovering and connecting to consoles.
const Troubleshooting = "https://feathernet.github.io/ucremote/troubleshooting/"

// ProtocolNotes is the wire format writeup: framing, compression,
// payload shapes, and the capture methodology behind them.
const ProtocolNotes = "https://feathernet.github.io/ucremote/protocol/"

// ContributingCaptures explains how to submit captures of unrecognized
// traffic, ideally alongside validate-codec output.
const ContributingCaptures = "https://feathernet.github.io/ucremote/contributing/captures/"
