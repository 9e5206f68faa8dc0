package ascii

// Logo returns the runwatch banner
func Logo() string {
	return `
  ____ _   _ _ __ __      ____ _| |_ ___| |__
 |  __| | | | '_ \\ \ /\ / / _` + "`" + ` | __/ __| '_ \
 | |  | |_| | | | |\ V  V / (_| | || (__| | | |
 |_|   \__,_|_| |_| \_/\_/ \__,_|\__\___|_| |_|
`
}
