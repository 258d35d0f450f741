// Package cmd is for command line interactions with the viennaptm application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viennaptm/viennaptm/internal/ptm"
)

// cfgFile is the path of a YAML or JSON config file mirroring the flags.
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "viennaptm",
	Short: `Introduce post-translational modifications into protein structures.
Modified residues are grafted from a library of minimized templates`,
	Long: `Introduce post-translational modifications (PTMs) into protein 3D structures.

The input structure (a local .pdb/.cif file or a 4 character PDB identifier
fetched from RCSB) is modified in place: for each chain:residue=target request
the residue's hydrogens are stripped, the target template is aligned onto the
residue's anchor atoms, its new atoms are transferred, and atoms are deleted
or renamed per the library's atom mapping. The modified structure can then be
energy minimized with GROMACS before it is written back out`,
	Version: "1.0.0",
	Run:     ptm.Execute,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// set flags
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to a YAML or JSON config file mirroring the flags")
	rootCmd.PersistentFlags().StringP("input", "i", "", "path to a .pdb/.cif structure file or a 4 character PDB identifier")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output file name ending in .pdb or .cif")
	rootCmd.PersistentFlags().String("library", "", "directory with library.json and template PDBs (default: bundled library)")
	rootCmd.PersistentFlags().String("logger", "console", "log destination, console or a file path to append to")
	rootCmd.PersistentFlags().Bool("debug", false, "log at DEBUG level")
	rootCmd.PersistentFlags().String("gromacs.forcefield", "amber99sb-ildn", "force field passed to pdb2gmx")
	rootCmd.PersistentFlags().String("gromacs.water", "tip3p", "water model passed to pdb2gmx")
	rootCmd.PersistentFlags().String("gromacs.mdp", "", "custom minimization parameters (mdp) file")
	rootCmd.PersistentFlags().Int("gromacs.np", 1, "MPI rank count, values above one run mdrun under mpirun")

	rootCmd.Flags().StringArrayP("modify", "m", nil, "chain:residue=target modification, repeatable")
	rootCmd.Flags().StringArray("modification", nil, "alias of --modify")
	rootCmd.Flags().String("report", "", "file name for a JSON run report")
	rootCmd.Flags().Bool("gromacs.minimize", false, "energy minimize the modified structure with GROMACS")

	// Bind the parameters to viper
	viper.BindPFlag("input", rootCmd.PersistentFlags().Lookup("input"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("library", rootCmd.PersistentFlags().Lookup("library"))
	viper.BindPFlag("logger", rootCmd.PersistentFlags().Lookup("logger"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("gromacs.forcefield", rootCmd.PersistentFlags().Lookup("gromacs.forcefield"))
	viper.BindPFlag("gromacs.water", rootCmd.PersistentFlags().Lookup("gromacs.water"))
	viper.BindPFlag("gromacs.mdp", rootCmd.PersistentFlags().Lookup("gromacs.mdp"))
	viper.BindPFlag("gromacs.np", rootCmd.PersistentFlags().Lookup("gromacs.np"))
	viper.BindPFlag("modify", rootCmd.Flags().Lookup("modify"))
	viper.BindPFlag("modification", rootCmd.Flags().Lookup("modification"))
	viper.BindPFlag("report", rootCmd.Flags().Lookup("report"))
	viper.BindPFlag("gromacs.minimize", rootCmd.Flags().Lookup("gromacs.minimize"))
}

// initConfig reads the config file passed via --config into viper, so its
// values back the flags that were not set on the command line.
func initConfig() {
	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config file %s: %v", cfgFile, err)
	}
}
