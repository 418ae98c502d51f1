package params

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LoadChainConfigFile load, convert hex values into valid param yaml format,
// unmarshal, and apply beacon chain config file.
func LoadChainConfigFile(chainConfigFileName string) error {
	yamlFile, err := os.ReadFile(chainConfigFileName) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "failed to read chain config file")
	}
	conf, err := UnmarshalConfig(yamlFile)
	if err != nil {
		return err
	}
	log.Debugf("Config file values: %+v", conf)
	OverrideBeaconConfig(conf)
	return nil
}

// UnmarshalConfig parses a chain config YAML document on top of the preset
// it names. Mainnet is used when no preset is given.
func UnmarshalConfig(yamlFile []byte) (*BeaconChainConfig, error) {
	// Default to using mainnet.
	conf := MainnetConfig().Copy()
	// To track if config name is defined inside config file.
	hasConfigName := false
	// Convert 0x hex inputs to fixed bytes arrays
	lines := strings.Split(string(yamlFile), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "CONFIG_NAME") {
			hasConfigName = true
		}
		if strings.HasPrefix(line, "PRESET_BASE: 'minimal'") ||
			strings.HasPrefix(line, `PRESET_BASE: "minimal"`) ||
			strings.HasPrefix(line, "PRESET_BASE: minimal") {
			conf = MinimalSpecConfig().Copy()
		}
		if !strings.HasPrefix(line, "#") && strings.Contains(line, "0x") {
			parts, err := ReplaceHexStringWithYAMLFormat(line)
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse line %d", i+1)
			}
			lines[i] = strings.Join(parts, "\n")
		}
	}
	yamlFile = []byte(strings.Join(lines, "\n"))
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		if _, ok := err.(*yaml.TypeError); !ok {
			return nil, errors.Wrap(err, "failed to parse chain config yaml file")
		}
		log.WithError(err).Error("There were some issues parsing the config from a yaml file")
	}
	if !hasConfigName {
		conf.ConfigName = "devnet"
	}
	return conf, nil
}

// ReplaceHexStringWithYAMLFormat will replace hex strings that the yaml parser will understand.
func ReplaceHexStringWithYAMLFormat(line string) ([]string, error) {
	parts := strings.Split(line, "0x")
	decoded, err := hex.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode hex string")
	}
	var fixed interface{}
	switch l := len(decoded); {
	case l == 1:
		parts[0] += yamlInline(decoded[0])
		return parts[:1], nil
	case l > 1 && l <= 4:
		var arr [4]byte
		copy(arr[:], decoded)
		fixed = arr
	case l > 4 && l <= 32:
		var arr [32]byte
		copy(arr[:], decoded)
		fixed = arr
	case l > 32 && l <= 48:
		var arr [48]byte
		copy(arr[:], decoded)
		fixed = arr
	default:
		var arr [96]byte
		copy(arr[:], decoded)
		fixed = arr
	}
	fixedByte, err := yaml.Marshal(fixed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config file")
	}
	parts[1] = string(fixedByte)
	return parts, nil
}

func yamlInline(b byte) string {
	out, err := yaml.Marshal(b)
	if err != nil {
		return ""
	}
	return string(out)
}
