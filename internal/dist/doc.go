// Package dist provides log-density functions generic over ad.Field.
//
// Every function takes a propto flag. When propto is true, terms that do not
// depend on any T-valued argument (normalizing constants, binomial
// coefficients) are dropped, leaving the density up to an additive constant.
package dist
