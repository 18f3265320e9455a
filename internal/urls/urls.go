package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://mkarlsen.github.io/adcon/

// GettingStarted is the quick start guide covering installation,
// configuration, and the first sign-in.
const GettingStarted = "https://mkarlsen.github.io/adcon/getting-started/"

// Configuration documents the config file layout and every setting,
// including the server URL and TLS options.
const Configuration = "https://mkarlsen.github.io/adcon/configuration/"

// Troubleshooting provides solutions to common issues: unreachable
// servers, certificate problems, and authentication failures.
const Troubleshooting = "https://mkarlsen.github.io/adcon/troubleshooting/"

// AccountWorkflows is the guide to the account operations: search,
// creation, editing, password resets, and enable/disable.
const AccountWorkflows = "https://mkarlsen.github.io/adcon/workflows/"
