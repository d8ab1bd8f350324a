package verilog

import (
	"flag"
	"log"

	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/rule"

	verilogfacts "github.com/EngFlow/verilogtools/verilog"
)

// config.Configurer methods
func (*verilogLanguage) RegisterFlags(fs *flag.FlagSet, cmd string, c *config.Config) {}
func (*verilogLanguage) CheckFlags(fs *flag.FlagSet, c *config.Config) error          { return nil }

func (*verilogLanguage) KnownDirectives() []string {
	return []string{
		"verilog_standard",
	}
}

func (*verilogLanguage) Configure(c *config.Config, rel string, f *rule.File) {
	var conf *verilogConfig
	if parentConf, ok := c.Exts[languageName]; !ok {
		conf = newVerilogConfig()
	} else {
		conf = parentConf.(*verilogConfig).clone()
	}
	c.Exts[languageName] = conf

	if f == nil {
		return
	}
	for _, d := range f.Directives {
		switch d.Key {
		case "verilog_standard":
			std, err := verilogfacts.ParseStandard(d.Value)
			if err != nil {
				log.Printf("%v is invalid value for directive %v: %v", d.Value, d.Key, err)
				continue
			}
			conf.standard = std
		}
	}
}

type verilogConfig struct {
	standard verilogfacts.Standard
}

func getVerilogConfig(c *config.Config) *verilogConfig {
	return c.Exts[languageName].(*verilogConfig)
}

func newVerilogConfig() *verilogConfig {
	return &verilogConfig{standard: verilogfacts.DefaultStandard()}
}

func (conf *verilogConfig) clone() *verilogConfig {
	copy := *conf
	return &copy
}
