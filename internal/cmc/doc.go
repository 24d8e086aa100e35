// Package cmc implements constrained Monte Carlo for atomistic spin systems.
//
// The engine samples thermal equilibrium while keeping the direction of the
// net magnetization fixed. Each trial moves two spins together: the first
// takes a random step, the second is solved so that the transverse
// magnetization in the constraint frame is unchanged. Acceptance uses the
// Boltzmann factor times the Jacobian of the constrained move.
//
//   - [Frame]: rotation from the lab frame into the constraint frame
//   - [Engine]: paired-move sweeps and acceptance statistics
//   - [Stats]: success and rejection counters
//
// # Example
//
//	eng := cmc.New(sys, ev, mats, rng, cmc.WithConstraint(90, 0))
//	for i := 0; i < sweeps; i++ {
//	    if err := eng.Sweep(300); err != nil {
//	        return err
//	    }
//	}
//	fmt.Println(eng.Stats().AcceptanceRate())
//
// # Thread Safety
//
// An Engine is NOT thread-safe. It is the only writer of the spin array
// while a sweep runs, and trials must be applied in order.
package cmc
