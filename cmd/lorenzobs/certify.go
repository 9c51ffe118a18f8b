package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/lorenzobs/internal/analysis"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/physics"
	"github.com/san-kum/lorenzobs/internal/viz"
)

func newCertifyCmd() *cobra.Command {
	var flags simFlags
	var xm, lyapunovTime float64

	cmd := &cobra.Command{
		Use:   "certify",
		Short: "check the observer contraction certificate and plant chaos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			p, err := cfg.Params()
			if err != nil {
				return err
			}

			cert, err := analysis.Certify(p, xm)
			if err != nil {
				return err
			}
			integ, err := integrators.New(cfg.Integrator)
			if err != nil {
				return err
			}
			plant := cfg.GetInitState()[:3]
			lambda := analysis.LyapunovExponent(physics.NewLorenz(p), integ, plant, p.Dt, lyapunovTime, 1e-8)

			lines := []string{
				viz.MetricLine("eig sym(J_yz) #1", cert.YZEigen[0]),
				viz.MetricLine("eig sym(J_yz) #2", cert.YZEigen[1]),
				viz.MetricLine("eig J_x", cert.XEigen),
				viz.MetricLine("contraction rate", cert.Rate),
				viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "observer")) + viz.Verdict(cert.Contracting, "contracting", "not contracting"),
				viz.MetricLine("plant lyapunov exponent", lambda),
				viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "plant")) + viz.Verdict(lambda > 0, "chaotic", "not chaotic"),
			}
			fmt.Println(viz.Summary(fmt.Sprintf("certificate (sigma=%g rho=%g beta=%g)", p.Sigma, p.Rho, p.Beta), lines...))
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().Float64Var(&xm, "xm", 0, "measurement at which the jacobian is evaluated")
	cmd.Flags().Float64Var(&lyapunovTime, "lyapunov-time", 50, "integration time for the lyapunov estimate")
	return cmd
}
