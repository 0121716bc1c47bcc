// Package wunderground models Weather Underground personal weather station
// (PWS) history pages: the dashboard URLs they live at, the fixed column
// layouts of the observation tables they render, and the parsing rules that
// turn rendered markup into typed, time-indexed rows.
package wunderground
