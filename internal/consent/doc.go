// Package consent decides which npm packages may be installed when some of
// them ask for the user's approval first.
//
// A single global answer is remembered across runs: "y" installs every
// package that needs confirmation, "n" skips them all, anything else asks
// for each package on every run. The answer comes from an environment
// variable when set, otherwise from a Store, otherwise from a prompt whose
// answer is then stored.
//
// Tokens are compared after trimming surrounding whitespace and ignoring
// case, so an environment answer of "Y" or a stored "y\n" both mean "install all".
package consent
