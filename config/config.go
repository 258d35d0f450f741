// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// GromacsConfig is settings for the energy minimization pipeline
type GromacsConfig struct {
	// whether to energy minimize the modified structure before writing it
	Minimize bool `mapstructure:"minimize"`

	// the force field passed to pdb2gmx
	Forcefield string `mapstructure:"forcefield"`

	// the water model passed to pdb2gmx
	Water string `mapstructure:"water"`

	// path to a custom minimization parameters (mdp) file
	Mdp string `mapstructure:"mdp"`

	// the number of MPI ranks. values above one run mdrun under mpirun
	Np int `mapstructure:"np"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a config file (YAML or JSON)
// and those available from the command line
type Config struct {
	// path to the input structure file or a 4 character PDB identifier
	Input string `mapstructure:"input"`

	// "chain:residue=target" modification strings
	Modifications []string `mapstructure:"modify"`

	// path the modified structure is written to
	Output string `mapstructure:"output"`

	// path to a custom modification library directory
	Library string `mapstructure:"library"`

	// path a JSON run report is written to (empty means no report)
	Report string `mapstructure:"report"`

	// "console" or a file path that logs are appended to
	Logger string `mapstructure:"logger"`

	// whether to log at DEBUG level
	Debug bool `mapstructure:"debug"`

	// energy minimization settings
	Gromacs GromacsConfig `mapstructure:"gromacs"`
}

// New returns a new Config struct populated by
// Viper settings (either from a config file)
// and/or command line arguments
func New() *Config {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	// the longer spelling of the modification flag merges into the short one
	c.Modifications = append(c.Modifications, viper.GetStringSlice("modification")...)

	return c.withDefaults()
}

// withDefaults fills the settings a config file or the CLI left out.
func (c *Config) withDefaults() *Config {
	if c.Output == "" {
		c.Output = "output.pdb"
	}
	if c.Logger == "" {
		c.Logger = "console"
	}
	if c.Gromacs.Forcefield == "" {
		c.Gromacs.Forcefield = "amber99sb-ildn"
	}
	if c.Gromacs.Water == "" {
		c.Gromacs.Water = "tip3p"
	}
	if c.Gromacs.Np < 1 {
		c.Gromacs.Np = 1
	}
	return c
}
