// Package stochastic simulates the predator-prey system as a discrete
// event process.
//
// Each iteration draws u from a [Source] and compares it against four
// cumulative thresholds, checked in a fixed order:
//
//	T1 = alpha*prey*dt                 prey birth
//	T2 = T1 + delta*predators*dt       predator death
//	T3 = T2 + beta*prey*predators*dt   prey death
//	T4 = T3 + gamma*prey*predators*dt  predator birth
//
// The first threshold with u <= Ti fires; if none does, the step is empty.
// This is a fixed-dt approximation of a Markov jump process, so dt has to
// keep T4 well below 1. That is the caller's responsibility.
//
// Populations are not clamped by default and can go negative after repeated
// death events. Set [Params.ClampAtZero] to stop decrements at zero.
package stochastic
