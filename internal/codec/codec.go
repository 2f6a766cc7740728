// Package codec implementa a codificação texto <-> forma estruturada dos
// predicados e filtros de rota persistidos nas colunas predicates/filters.
//
// Forma canônica, um spec por segmento separado por vírgula:
//
//	Name[key1=value1;key2=value2]
//
// Segmentos sem colchetes são formatos legados e decodificam pelas regras de
// compatibilidade (Path=, Method=, StripPrefix=, RewritePath=, etc). Vírgulas
// dentro de valores de argumento não são suportadas pela gramática.
package codec

import (
	"strings"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"go.uber.org/zap"
)

// AggregatorPath é o caminho da página agregadora de documentação; aparece
// como filtro literal em dados já persistidos e decodifica como SetPath.
const AggregatorPath = "/swagger-aggregator"

// Codec converte predicados e filtros entre o texto persistido e a forma
// estruturada. Entradas malformadas nunca geram erro: degradam para as
// formas de fallback e registram um aviso.
type Codec struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Codec {
	return &Codec{logger: logger}
}

// DecodePredicates decodifica a string persistida em uma sequência de
// predicados. String vazia decodifica em sequência vazia.
func (c *Codec) DecodePredicates(encoded string) []model.PredicateSpec {
	specs := []model.PredicateSpec{}
	for _, segment := range splitSegments(encoded) {
		specs = append(specs, c.decodePredicate(segment))
	}
	return specs
}

func (c *Codec) decodePredicate(segment string) model.PredicateSpec {
	if name, args, ok := parseBracketed(segment); ok {
		return model.PredicateSpec{Name: name, Args: args}
	}

	// Formatos legados sem colchetes
	var spec model.PredicateSpec
	switch {
	case strings.HasPrefix(segment, "Path="):
		spec.Name = "Path"
		spec.AddArg("pattern", strings.TrimPrefix(segment, "Path="))
	case strings.HasPrefix(segment, "Method="):
		spec.Name = "Method"
		spec.AddArg("methods", strings.TrimPrefix(segment, "Method="))
	default:
		c.logger.Warn("predicado sem formato reconhecido, tratando como padrão de caminho",
			zap.String("segment", segment))
		spec.Name = "Path"
		spec.AddArg("pattern", segment)
	}
	return spec
}

// EncodePredicates codifica os predicados na forma canônica Name[k=v;k=v],
// segmentos unidos por vírgula.
func (c *Codec) EncodePredicates(specs []model.PredicateSpec) string {
	segments := make([]string, 0, len(specs))
	for _, spec := range specs {
		pairs := make([]string, 0, len(spec.Args))
		for _, arg := range spec.Args {
			pairs = append(pairs, arg.Key+"="+arg.Value)
		}
		segments = append(segments, spec.Name+"["+strings.Join(pairs, ";")+"]")
	}
	return strings.Join(segments, ",")
}

// DecodeFilters decodifica a string persistida em uma sequência de filtros,
// preservando os formatos legados já gravados em banco.
func (c *Codec) DecodeFilters(encoded string) []model.FilterSpec {
	segments := splitSegments(encoded)
	specs := []model.FilterSpec{}

	for i := 0; i < len(segments); i++ {
		segment := segments[i]

		if name, args, ok := parseBracketed(segment); ok {
			specs = append(specs, model.FilterSpec{Name: name, Args: args})
			continue
		}

		var spec model.FilterSpec
		switch {
		case strings.HasPrefix(segment, "StripPrefix="):
			spec.Name = "StripPrefix"
			spec.AddArg("parts", strings.TrimPrefix(segment, "StripPrefix="))

		case strings.HasPrefix(segment, "RewritePath="):
			value := strings.TrimPrefix(segment, "RewritePath=")
			// O replacement vem depois de uma vírgula, que o split de
			// segmentos já consumiu; o próximo segmento é o replacement
			// desde que não seja outro filtro.
			if i+1 < len(segments) && !looksLikeFilter(segments[i+1]) {
				spec.Name = "RewritePath"
				spec.AddArg("regexp", value)
				spec.AddArg("replacement", segments[i+1])
				i++
			} else {
				c.logger.Warn("filtro RewritePath sem replacement, usando pass-through",
					zap.String("segment", segment))
				spec.Name = "StripPrefix"
				spec.AddArg("parts", "0")
			}

		case segment == AggregatorPath:
			spec.Name = "SetPath"
			spec.AddArg("template", AggregatorPath)

		case strings.Contains(segment, "="):
			kv := strings.SplitN(segment, "=", 2)
			spec.Name = kv[0]
			if kv[1] != "" {
				spec.AddArg("_value", kv[1])
			}

		default:
			spec.Name = segment
		}
		specs = append(specs, spec)
	}
	return specs
}

// EncodeFilters codifica os filtros no formato persistido: filtros sem
// argumentos viram apenas o nome; com argumentos viram Name=v1,v2 (valores
// unidos por vírgula, nomes de argumento descartados). A assimetria com a
// codificação de predicados é intencional, para compatibilidade com os
// dados já gravados.
func (c *Codec) EncodeFilters(specs []model.FilterSpec) string {
	segments := make([]string, 0, len(specs))
	for _, spec := range specs {
		if len(spec.Args) == 0 {
			segments = append(segments, spec.Name)
			continue
		}
		values := make([]string, 0, len(spec.Args))
		for _, arg := range spec.Args {
			values = append(values, arg.Value)
		}
		segments = append(segments, spec.Name+"="+strings.Join(values, ","))
	}
	return strings.Join(segments, ",")
}

// splitSegments separa a string codificada em segmentos, descartando os
// vazios. A gramática não suporta vírgulas dentro de valores.
func splitSegments(encoded string) []string {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	var segments []string
	for _, raw := range strings.Split(encoded, ",") {
		segment := strings.TrimSpace(raw)
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// parseBracketed tenta extrair a forma canônica Name[k=v;k=v]. Pares sem
// '=' são descartados silenciosamente.
func parseBracketed(segment string) (string, []model.Arg, bool) {
	open := strings.Index(segment, "[")
	closing := strings.Index(segment, "]")
	if open <= 0 || closing <= open {
		return "", nil, false
	}

	name := segment[:open]
	var args []model.Arg
	for _, pair := range strings.Split(segment[open+1:closing], ";") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			args = append(args, model.Arg{Key: kv[0], Value: kv[1]})
		}
	}
	return name, args, true
}

// looksLikeFilter indica se o segmento parece uma definição de filtro em vez
// de um valor solto (replacement de RewritePath, por exemplo).
func looksLikeFilter(segment string) bool {
	return strings.Contains(segment, "=") || strings.Contains(segment, "[")
}
